package assistant

import (
	"fmt"
	"strings"

	"github.com/campus-hub/campus-ops-hub/internal/domain/student"
)

// chatSystemInstruction frames the conversational assistant persona.
const chatSystemInstruction = "You are ScholarBot, a helpful campus assistant for students and staff. " +
	"You answer questions about campus life, academics, facilities, and transit. " +
	"Keep answers short, friendly, and practical."

// riskAnalysisPrompt asks for an intervention summary over the students
// currently flagged at elevated risk.
func riskAnalysisPrompt(atRisk []*student.Student) string {
	var sb strings.Builder
	sb.WriteString("You are an academic advisor. Analyze the following students who are at academic risk ")
	sb.WriteString("and suggest brief, concrete interventions for each. Be concise.\n\n")
	for _, s := range atRisk {
		fmt.Fprintf(&sb, "- %s (%s): attendance %.0f%%, composite score %.1f, risk %s\n",
			s.Name, s.ID, s.Attendance, s.RiskScore, s.RiskLevel)
	}
	return sb.String()
}

// locationPrompt asks for directions to a campus place.
func locationPrompt(query string) string {
	return fmt.Sprintf(
		"A student asks where to find the following place on campus: %q. "+
			"Give a short, helpful answer with directions or the building name.", query)
}
