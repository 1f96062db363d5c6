package services

import (
	"fmt"
	"strings"

	"github.com/carepulse/healthcare-analytics/backend/internal/domain/entities"
)

// System prompts per insight kind. Kept alongside the user templates so the
// text generator stays a plain capability interface.
const (
	summarySystemPrompt = "You are a healthcare analytics assistant. Your role is to provide clear, concise summaries of patient episodes for healthcare professionals."

	riskExplanationSystemPrompt = "You are a healthcare analytics assistant specializing in readmission risk assessment. Use a professional, clinical tone suitable for healthcare professionals."

	recommendationSystemPrompt = "You are a healthcare analytics assistant providing evidence-based recommendations for care transitions and readmission prevention."
)

// episodeContext formats the episode fields into the context block shared by
// all three prompts.
func episodeContext(e *entities.Episode) string {
	dischargeDate := "Still admitted"
	if e.DischargeDate != nil {
		dischargeDate = e.DischargeDate.Format("2006-01-02")
	}

	lengthOfStay := "N/A"
	if e.LengthOfStay != nil {
		lengthOfStay = fmt.Sprintf("%g", *e.LengthOfStay)
	}

	riskScore := "N/A"
	if e.RiskScore != nil {
		riskScore = fmt.Sprintf("%g", *e.RiskScore)
	}

	readmitted := "No"
	if e.ReadmittedWithin30Days {
		readmitted = "Yes"
	}

	var b strings.Builder
	b.WriteString("Patient Information:\n")
	fmt.Fprintf(&b, "- Patient ID: %s\n", e.PatientID)
	fmt.Fprintf(&b, "- Patient Name: %s\n", e.PatientName)
	fmt.Fprintf(&b, "- Unit: %s\n", e.Unit)
	fmt.Fprintf(&b, "- Admission Date: %s\n", e.AdmitDate.Format("2006-01-02"))
	fmt.Fprintf(&b, "- Discharge Date: %s\n", dischargeDate)
	fmt.Fprintf(&b, "- Length of Stay: %s days\n", lengthOfStay)
	fmt.Fprintf(&b, "- Primary Diagnosis: %s\n", e.PrimaryDiagnosis)
	fmt.Fprintf(&b, "- Readmission Risk Score: %s\n", riskScore)
	fmt.Fprintf(&b, "- Previously Readmitted (30-day): %s\n", readmitted)
	return b.String()
}

func summaryUserPrompt(e *entities.Episode) string {
	return fmt.Sprintf(`Summarize the following patient case. Include:
1. Patient admission context and primary diagnosis
2. Length of stay if available
3. Key clinical details
4. Current status (discharged or still admitted)

Keep the summary professional, concise (2-3 sentences), and focused on the essential clinical information.

Patient Episode Data:
%s`, episodeContext(e))
}

func riskExplanationUserPrompt(e *entities.Episode) string {
	return fmt.Sprintf(`Explain why this patient is at risk of 30-day readmission. The patient has a %s risk level (risk score: %.2f).

Consider factors such as:
- Primary diagnosis and its complexity
- Length of stay patterns
- Previous readmission history
- Patient demographics and clinical characteristics
- Condition-specific risk factors

Provide a clear, evidence-based explanation (3-4 sentences) that would be useful for care planning.

Patient Episode Data:
%s
Risk Explanation:`, e.RiskTier(), riskScoreOrZero(e), episodeContext(e))
}

func recommendationUserPrompt(e *entities.Episode) string {
	return fmt.Sprintf(`Provide 3 actionable next steps for this patient to reduce their risk of 30-day readmission. The patient has a %s risk level (risk score: %.2f).

Focus on:
1. Immediate post-discharge actions
2. Follow-up care coordination
3. Patient education or support services
4. Medication management
5. Specialist referrals if needed

Format as a numbered list (3 items). Each recommendation should be specific, actionable, and tailored to the patient's condition.

Patient Episode Data:
%s
Recommendations:`, e.RiskTier(), riskScoreOrZero(e), episodeContext(e))
}

// Fallback texts used when the generator call fails. Built purely from local
// episode fields so generation never blocks the dashboard.

func summaryFallback(e *entities.Episode) string {
	lengthOfStay := "Ongoing"
	if e.LengthOfStay != nil {
		lengthOfStay = fmt.Sprintf("%g", *e.LengthOfStay)
	}
	return fmt.Sprintf("%s was admitted to %s with %s. Length of stay: %s days.",
		e.PatientName, e.Unit, e.PrimaryDiagnosis, lengthOfStay)
}

func riskExplanationFallback(e *entities.Episode) string {
	return fmt.Sprintf("This patient has a %s readmission risk (score: %.2f) based on their %s diagnosis, length of stay, and clinical characteristics. Close monitoring and follow-up care are recommended to prevent readmission.",
		e.RiskTier(), riskScoreOrZero(e), e.PrimaryDiagnosis)
}

func recommendationFallback(e *entities.Episode) string {
	return fmt.Sprintf("1. Schedule follow-up appointment within 7-10 days for %s monitoring.\n"+
		"2. Ensure patient education on condition management and medication compliance.\n"+
		"3. Coordinate with primary care provider for ongoing care management.",
		e.PrimaryDiagnosis)
}

func riskScoreOrZero(e *entities.Episode) float64 {
	if e.RiskScore == nil {
		return 0
	}
	return *e.RiskScore
}
