package interview

import (
	"fmt"
	"strings"
)

const systemInstruction = "You are an expert technical interviewer. " +
	"Your task is to generate 1-3 very concise follow-up interview questions " +
	"based strictly on the candidate's response. " +
	"Do NOT number the questions or use bullet points: write each question on a separate line, followed by a short rationale on the same line. " +
	"The follow-ups should probe for depth, reflection, or clarification. " +
	"Keep them professional, neutral, and relevant to the given role and interview type. " +
	"Do not return long explanations. Return only the question(s) and a very short rationale, as if you are talking to the person you are interviewing."

const userTemplate = `Original Question: %s
Candidate's Answer: %s
Role Context: %s
Interview Type: %s

Now generate appropriate follow-up interview question(s).`

// BuildPrompt собирает системную и пользовательскую инструкции для хода интервью.
func BuildPrompt(turn Turn) PromptPair {
	role := strings.TrimSpace(turn.Role)
	if role == "" {
		role = NotSpecified
	}

	return PromptPair{
		System: systemInstruction,
		User:   fmt.Sprintf(userTemplate, turn.Question, turn.Answer, role, joinInterviewTypes(turn.InterviewType)),
	}
}

func joinInterviewTypes(types []string) string {
	if len(types) == 0 {
		return NotSpecified
	}
	return strings.Join(types, ", ")
}
