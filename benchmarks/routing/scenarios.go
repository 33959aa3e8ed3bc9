// ABOUTME: Labeled routing scenarios for the navigator benchmark
// ABOUTME: Each scenario names the department a request should reach and the arguments it should carry

package routing

import (
	"fmt"

	"github.com/harper/hospital-navigator/internal/models"
)

// TestScenario is one labeled request
type TestScenario struct {
	ID            string
	Name          string
	Message       string
	ExpectedAgent models.AgentType
	// ExpectedArgs maps argument names to substrings the extracted value
	// must contain, compared case-insensitively
	ExpectedArgs map[string]string
}

// AllScenarios returns every scenario in a stable order
func AllScenarios() []TestScenario {
	return []TestScenario{
		{
			ID:            "mr1",
			Name:          "Lab results from last week",
			Message:       "I need my lab results from last week",
			ExpectedAgent: models.AgentMedicalRecords,
			ExpectedArgs:  map[string]string{"query_type": "lab"},
		},
		{
			ID:            "mr2",
			Name:          "Diagnosis history",
			Message:       "Can you show me my past diagnoses for asthma?",
			ExpectedAgent: models.AgentMedicalRecords,
			ExpectedArgs:  map[string]string{"query_type": "diagnos"},
		},
		{
			ID:            "mr3",
			Name:          "Imaging report",
			Message:       "I'd like a copy of my MRI report",
			ExpectedAgent: models.AgentMedicalRecords,
		},
		{
			ID:            "bi1",
			Name:          "Insurance coverage",
			Message:       "Does my insurance cover physical therapy?",
			ExpectedAgent: models.AgentBilling,
		},
		{
			ID:            "bi2",
			Name:          "Outstanding bill",
			Message:       "Why is my last hospital bill so high?",
			ExpectedAgent: models.AgentBilling,
			ExpectedArgs:  map[string]string{"action": "bill"},
		},
		{
			ID:            "bi3",
			Name:          "Payment",
			Message:       "I want to pay my outstanding balance",
			ExpectedAgent: models.AgentBilling,
		},
		{
			ID:            "pi1",
			Name:          "Address change",
			Message:       "I moved, please update my home address",
			ExpectedAgent: models.AgentPatientInfo,
			ExpectedArgs:  map[string]string{"action": "update"},
		},
		{
			ID:            "pi2",
			Name:          "New patient registration",
			Message:       "I'm a new patient and need to register",
			ExpectedAgent: models.AgentPatientInfo,
			ExpectedArgs:  map[string]string{"action": "register"},
		},
		{
			ID:            "pi3",
			Name:          "View profile",
			Message:       "What phone number do you have on file for me?",
			ExpectedAgent: models.AgentPatientInfo,
		},
		{
			ID:            "as1",
			Name:          "Book cardiology",
			Message:       "Book a cardiology appointment for next Monday",
			ExpectedAgent: models.AgentScheduler,
			ExpectedArgs:  map[string]string{"intent": "book", "department": "cardio"},
		},
		{
			ID:            "as2",
			Name:          "Cancel appointment",
			Message:       "Please cancel my dermatology appointment tomorrow",
			ExpectedAgent: models.AgentScheduler,
			ExpectedArgs:  map[string]string{"intent": "cancel"},
		},
		{
			ID:            "as3",
			Name:          "Reschedule",
			Message:       "Can I move my checkup to Friday afternoon?",
			ExpectedAgent: models.AgentScheduler,
			ExpectedArgs:  map[string]string{"intent": "reschedule"},
		},
	}
}

// GetScenario returns the scenario with the given ID
func GetScenario(id string) (TestScenario, error) {
	for _, s := range AllScenarios() {
		if s.ID == id {
			return s, nil
		}
	}
	return TestScenario{}, fmt.Errorf("unknown scenario %q", id)
}
