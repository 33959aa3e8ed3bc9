// ABOUTME: Typed argument payloads, one variant per delegation target
// ABOUTME: Arguments is a closed union; DecodeArguments builds a variant from tool-call JSON
package models

import (
	"encoding/json"
	"fmt"
)

// Arguments is the payload forwarded to a sub-agent. Only the four variants
// in this file implement it.
type Arguments interface {
	// Agent returns the target this payload belongs to
	Agent() AgentType
	// Fields returns the non-empty arguments keyed by their schema names
	Fields() map[string]string

	sealed()
}

// MedicalRecordsArgs carries MedicalRecordsAgent arguments
type MedicalRecordsArgs struct {
	QueryType      string `json:"query_type"`
	PatientContext string `json:"patient_context"`
}

// BillingArgs carries BillingAndInsuranceAgent arguments
type BillingArgs struct {
	Action  string `json:"action"`
	Details string `json:"details,omitempty"`
}

// PatientInfoArgs carries PatientInformationAgent arguments
type PatientInfoArgs struct {
	Action        string `json:"action"`
	UpdateDetails string `json:"update_details,omitempty"`
}

// SchedulerArgs carries AppointmentScheduler arguments
type SchedulerArgs struct {
	Intent     string `json:"intent"`
	Department string `json:"department,omitempty"`
	DateTime   string `json:"date_time,omitempty"`
}

func (MedicalRecordsArgs) Agent() AgentType { return AgentMedicalRecords }
func (BillingArgs) Agent() AgentType        { return AgentBilling }
func (PatientInfoArgs) Agent() AgentType    { return AgentPatientInfo }
func (SchedulerArgs) Agent() AgentType      { return AgentScheduler }

func (MedicalRecordsArgs) sealed() {}
func (BillingArgs) sealed()        {}
func (PatientInfoArgs) sealed()    {}
func (SchedulerArgs) sealed()      {}

func (a MedicalRecordsArgs) Fields() map[string]string {
	return compact(map[string]string{
		"query_type":      a.QueryType,
		"patient_context": a.PatientContext,
	})
}

func (a BillingArgs) Fields() map[string]string {
	return compact(map[string]string{
		"action":  a.Action,
		"details": a.Details,
	})
}

func (a PatientInfoArgs) Fields() map[string]string {
	return compact(map[string]string{
		"action":         a.Action,
		"update_details": a.UpdateDetails,
	})
}

func (a SchedulerArgs) Fields() map[string]string {
	return compact(map[string]string{
		"intent":     a.Intent,
		"department": a.Department,
		"date_time":  a.DateTime,
	})
}

func compact(m map[string]string) map[string]string {
	for k, v := range m {
		if v == "" {
			delete(m, k)
		}
	}
	return m
}

// DecodeArguments parses raw tool-call arguments for the given target.
// Empty input decodes to the zero variant; unknown keys are ignored.
func DecodeArguments(agent AgentType, raw []byte) (Arguments, error) {
	if len(raw) == 0 {
		raw = []byte("{}")
	}

	switch agent {
	case AgentMedicalRecords:
		var a MedicalRecordsArgs
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, fmt.Errorf("decoding %s arguments: %w", agent, err)
		}
		return a, nil
	case AgentBilling:
		var a BillingArgs
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, fmt.Errorf("decoding %s arguments: %w", agent, err)
		}
		return a, nil
	case AgentPatientInfo:
		var a PatientInfoArgs
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, fmt.Errorf("decoding %s arguments: %w", agent, err)
		}
		return a, nil
	case AgentScheduler:
		var a SchedulerArgs
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, fmt.Errorf("decoding %s arguments: %w", agent, err)
		}
		return a, nil
	case AgentNavigator:
		return nil, fmt.Errorf("navigator does not take arguments")
	}
	return nil, fmt.Errorf("unknown agent %q", agent)
}
