// ABOUTME: Presentation projection of the navigator state into a sub-agent panel
// ABOUTME: Applies the cosmetic defaults each panel uses when arguments are absent
package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/harper/hospital-navigator/internal/models"
)

// Panel is a text view of the active agent
type Panel struct {
	Agent    models.AgentType
	Title    string
	Subtitle string
	Lines    []string
}

// Build projects state into the panel for its active agent
func Build(state models.NavigatorState) Panel {
	switch args := state.ContextData.(type) {
	case models.MedicalRecordsArgs:
		return medicalRecords(args)
	case models.BillingArgs:
		return billing(args)
	case models.PatientInfoArgs:
		return patientInfo(args)
	case models.SchedulerArgs:
		return scheduler(args)
	}
	return idle(state.Status)
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func idle(status models.Status) Panel {
	p := Panel{
		Agent:    models.AgentNavigator,
		Title:    "System Idle",
		Subtitle: "The navigator is waiting for your request to activate the appropriate hospital sub-system.",
	}
	switch status {
	case models.StatusProcessing:
		p.Lines = []string{"Identifying intent..."}
	case models.StatusError:
		p.Lines = []string{"Last request failed."}
	}
	return p
}

func medicalRecords(a models.MedicalRecordsArgs) Panel {
	p := Panel{
		Agent:    models.AgentMedicalRecords,
		Title:    "Medical Records Agent",
		Subtitle: "Confidential Patient Data Access",
		Lines: []string{
			"Access Logged: HIPAA Compliance Active.",
			"Retrieving records related to: " + orDefault(a.QueryType, "General History"),
		},
	}
	if a.PatientContext != "" {
		p.Lines = append(p.Lines, "Context: "+a.PatientContext)
	}
	return p
}

func billing(a models.BillingArgs) Panel {
	p := Panel{
		Agent:    models.AgentBilling,
		Title:    "Billing & Insurance",
		Subtitle: "Financial Services Department",
		Lines:    []string{"Request: " + orDefault(a.Action, "general inquiry")},
	}
	if a.Details != "" {
		p.Lines = append(p.Lines, "Details: "+a.Details)
	}
	return p
}

func patientInfo(a models.PatientInfoArgs) Panel {
	p := Panel{
		Agent:    models.AgentPatientInfo,
		Title:    "Patient Information",
		Subtitle: "Administration & Records",
		Lines:    []string{"Action: " + orDefault(a.Action, "view_profile")},
	}
	if a.Action == "update" {
		p.Lines = append(p.Lines, "Update Requested: "+orDefault(a.UpdateDetails, "General profile update initiated."))
	}
	return p
}

func scheduler(a models.SchedulerArgs) Panel {
	kind := "Modification"
	if a.Intent == "book" {
		kind = "New Booking"
	}
	p := Panel{
		Agent:    models.AgentScheduler,
		Title:    "Appointment Scheduler",
		Subtitle: "Central Scheduling",
		Lines:    []string{fmt.Sprintf("%s • %s", kind, orDefault(a.Department, "General Practice"))},
	}
	if a.DateTime != "" {
		p.Lines = append(p.Lines, "Preference: "+a.DateTime)
	}
	return p
}

var accents = map[models.AgentType]lipgloss.Color{
	models.AgentNavigator:      lipgloss.Color("8"),
	models.AgentMedicalRecords: lipgloss.Color("9"),
	models.AgentBilling:        lipgloss.Color("10"),
	models.AgentPatientInfo:    lipgloss.Color("12"),
	models.AgentScheduler:      lipgloss.Color("13"),
}

// Render draws p as a bordered box. Width <= 0 lets the content decide.
func Render(p Panel, width int) string {
	accent, ok := accents[p.Agent]
	if !ok {
		accent = lipgloss.Color("8")
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(accent).Render(p.Title)
	subtitle := lipgloss.NewStyle().Faint(true).Render(p.Subtitle)

	body := []string{title, subtitle}
	if len(p.Lines) > 0 {
		body = append(body, "")
		body = append(body, p.Lines...)
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1)
	if width > 0 {
		box = box.Width(width)
	}
	return box.Render(strings.Join(body, "\n"))
}

// Plain renders p without styling, one line per entry
func Plain(p Panel) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s\n", p.Title, p.Subtitle)
	for _, line := range p.Lines {
		fmt.Fprintf(&b, "  %s\n", line)
	}
	return b.String()
}
