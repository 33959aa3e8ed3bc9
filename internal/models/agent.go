// ABOUTME: AgentType enumerates the navigator and the four hospital sub-agents
// ABOUTME: Names double as the function names exposed to the routing model
package models

// AgentType identifies which panel owns the conversation
type AgentType string

const (
	// AgentNavigator is the idle/routing default, never a delegation target
	AgentNavigator AgentType = "NAVIGATOR"

	// AgentMedicalRecords handles records, test results, diagnoses, care history
	AgentMedicalRecords AgentType = "MedicalRecordsAgent"

	// AgentBilling handles invoices, payments and insurance coverage
	AgentBilling AgentType = "BillingAndInsuranceAgent"

	// AgentPatientInfo handles registration and profile updates
	AgentPatientInfo AgentType = "PatientInformationAgent"

	// AgentScheduler handles booking, cancelling and rescheduling
	AgentScheduler AgentType = "AppointmentScheduler"
)

// Targets lists the delegation targets in declaration order
var Targets = []AgentType{
	AgentMedicalRecords,
	AgentBilling,
	AgentPatientInfo,
	AgentScheduler,
}

// IsValid reports whether a is a known agent, including the navigator
func (a AgentType) IsValid() bool {
	return a == AgentNavigator || a.IsTarget()
}

// IsTarget reports whether a is one of the four delegation targets
func (a AgentType) IsTarget() bool {
	switch a {
	case AgentMedicalRecords, AgentBilling, AgentPatientInfo, AgentScheduler:
		return true
	}
	return false
}

// DisplayName returns the human-readable department name
func (a AgentType) DisplayName() string {
	switch a {
	case AgentNavigator:
		return "Hospital Navigator"
	case AgentMedicalRecords:
		return "Medical Records"
	case AgentBilling:
		return "Billing & Insurance"
	case AgentPatientInfo:
		return "Patient Information"
	case AgentScheduler:
		return "Appointment Scheduler"
	}
	return string(a)
}
