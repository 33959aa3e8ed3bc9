// ABOUTME: System instruction and the four function schemas offered to the routing model
// ABOUTME: Schema names match models.AgentType values one to one
package router

import (
	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/harper/hospital-navigator/internal/models"
)

// SystemInstruction tells the model to classify and delegate, never answer
const SystemInstruction = `You are the "Hospital System Navigator", an expert central navigator for every question about the hospital's systems.

Mandatory instructions:
1. Identify the core intent: analyse the user's request carefully to find its core intent.
2. Exclusive delegation: choose the single most relevant sub-agent out of the four available.
3. Never answer directly: do not try to answer the user's request yourself; always delegate by calling the matching function.
4. Forward context: pass the full context of the user's request to the selected sub-agent as arguments.

Tools / sub-agents available for delegation:
1. MedicalRecordsAgent: call this when the request is to retrieve medical records, test results, diagnoses or treatment history.
2. BillingAndInsuranceAgent: call this when the core intent is a financial question, an invoice, or clarification of an insurance policy.
3. PatientInformationAgent: call this when the request concerns administration of the patient's personal data (registration, updates, status checks).
4. AppointmentScheduler: call this when the request involves creating, modifying or cancelling an appointment.`

// DefaultTemperature keeps routing close to deterministic
const DefaultTemperature float32 = 0.1

func stringProp(description string) jsonschema.Definition {
	return jsonschema.Definition{Type: jsonschema.String, Description: description}
}

func functionTool(name models.AgentType, description string, props map[string]jsonschema.Definition, required ...string) openai.Tool {
	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        string(name),
			Description: description,
			Parameters: jsonschema.Definition{
				Type:       jsonschema.Object,
				Properties: props,
				Required:   required,
			},
		},
	}
}

// Tools returns the four delegation schemas in target order
func Tools() []openai.Tool {
	return []openai.Tool{
		functionTool(models.AgentMedicalRecords,
			"Delegates to the Medical Records Agent to retrieve patient history, test results, or diagnosis.",
			map[string]jsonschema.Definition{
				"query_type":      stringProp("The specific type of record requested (e.g., 'lab_result', 'diagnosis', 'history', 'all')."),
				"patient_context": stringProp("Summary of what the user is looking for regarding their records."),
			},
			"query_type", "patient_context"),
		functionTool(models.AgentBilling,
			"Delegates to the Billing & Insurance Agent for invoices, payments, and coverage.",
			map[string]jsonschema.Definition{
				"action":  stringProp("Action required: 'check_bill', 'pay_bill', 'insurance_policy'."),
				"details": stringProp("Specific details about the billing inquiry."),
			},
			"action"),
		functionTool(models.AgentPatientInfo,
			"Delegates to Patient Info Agent for registration, updates, or profile checks.",
			map[string]jsonschema.Definition{
				"action":         stringProp("Action: 'register', 'update', 'view_profile'."),
				"update_details": stringProp("If updating, what fields need changing."),
			},
			"action"),
		functionTool(models.AgentScheduler,
			"Delegates to Appointment Scheduler for booking, cancelling, or rescheduling.",
			map[string]jsonschema.Definition{
				"intent":     stringProp("Intent: 'book', 'cancel', 'reschedule', 'check_availability'."),
				"department": stringProp("Medical department (e.g., Cardiology, General, Neurology)."),
				"date_time":  stringProp("Requested date or time preference."),
			},
			"intent"),
	}
}
