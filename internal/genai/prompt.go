package genai

import (
	"fmt"
	"strings"

	"github.com/studyhub/backend/internal/domain/quiz"
)

// maxContentChars caps extracted document text included in a prompt so the
// request stays inside the provider's input limits.
const maxContentChars = 4000

const quizSystemPrompt = "You are an expert educational content creator. " +
	"Generate high-quality quiz questions based on the provided content. " +
	"Always respond with valid JSON in the exact format requested."

const motivationSystemPrompt = "You are a supportive and knowledgeable study coach. " +
	"Create personalized, motivating messages that encourage learning and celebrate progress. " +
	"Keep messages concise (2-3 sentences) and genuinely inspiring."

const tipsSystemPrompt = "You are an expert study coach. " +
	"Provide practical, actionable study tips tailored to the student's needs."

// ============================================================================
// Quiz generation
// ============================================================================

// BuildQuizPrompt renders the quiz-generation instruction for the given
// content and parameters. The response contract is a JSON object of shape
// {"questions": [{question, options, correct_answer, explanation}, ...]}.
func BuildQuizPrompt(content, subject string, difficulty quiz.Difficulty, quizType quiz.QuizType, numQuestions int) string {
	var formatInstructions string
	switch quizType {
	case quiz.TypeMultipleChoice:
		formatInstructions = `For each question, provide:
- question: The question text
- options: Array of 4 possible answers
- correct_answer: The text of the correct option (must match one option exactly)
- explanation: Brief explanation of why the answer is correct`
	case quiz.TypeTrueFalse:
		formatInstructions = `For each question, provide:
- question: The question text (should be answerable with true/false)
- options: ["True", "False"]
- correct_answer: Either "True" or "False"
- explanation: Brief explanation of why the answer is correct`
	default: // short_answer
		formatInstructions = `For each question, provide:
- question: The question text
- options: null (not needed for short answers)
- correct_answer: The expected answer
- explanation: Brief explanation or key points for the answer`
	}

	return fmt.Sprintf(`Based on the following content about %s, create %d %s level %s questions.

Content:
%s

Requirements:
- Questions should be %s difficulty level
- Focus on key concepts and important details
- Ensure questions test understanding, not just memorization
- Make questions clear and unambiguous

%s

Respond with JSON in this exact format:
{
    "questions": [
        {
            "question": "Question text here?",
            "options": ["...", "...", "...", "..."] or ["True", "False"] or null,
            "correct_answer": "The correct answer",
            "explanation": "Explanation of the correct answer"
        }
    ]
}`,
		subject, numQuestions, difficulty, strings.ReplaceAll(string(quizType), "_", " "),
		truncate(content, maxContentChars),
		difficulty,
		formatInstructions)
}

// ============================================================================
// Motivation
// ============================================================================

// PerformanceSummary describes a user's recent quiz results for
// personalization of motivation messages.
type PerformanceSummary struct {
	AverageScore  float64
	RecentQuizzes int
	Improvement   float64 // trend between the older and newer half of recent scores
}

type MotivationParams struct {
	UserName    string
	Performance *PerformanceSummary
	StudyStreak int
	Tone        string // e.g. "encouraging"
}

// BuildMotivationPrompt renders a short free-text instruction targeting a
// 2-3 sentence message in the requested tone.
func BuildMotivationPrompt(p MotivationParams) string {
	tone := p.Tone
	if tone == "" {
		tone = "encouraging"
	}

	namePart := "for this student"
	if p.UserName != "" {
		namePart = "for " + p.UserName
	}

	performanceContext := ""
	if p.Performance != nil && p.Performance.AverageScore > 0 {
		sign := ""
		if p.Performance.Improvement > 0 {
			sign = "+"
		}
		performanceContext = fmt.Sprintf(`Recent performance:
- Average quiz score: %.1f%%
- Quizzes completed recently: %d
- Performance trend: %s%.1f%%`,
			p.Performance.AverageScore, p.Performance.RecentQuizzes, sign, p.Performance.Improvement)
	}

	streakContext := "Just starting their study journey"
	if p.StudyStreak > 0 {
		streakContext = fmt.Sprintf("Current study streak: %d days", p.StudyStreak)
	}

	return fmt.Sprintf(`Create a personalized, %s motivational message %s.

Context:
%s
%s

The message should:
- Be genuine and specific to their situation
- Acknowledge their progress or effort
- Provide encouragement for continued learning
- Be 2-3 sentences maximum
- Have a %s tone

Focus on growth mindset and celebrate their learning journey.`,
		tone, namePart, streakContext, performanceContext, tone)
}

// ============================================================================
// Study tips
// ============================================================================

type TipsParams struct {
	Subject       string
	Difficulty    quiz.Difficulty
	LearningStyle string // e.g. "visual"
}

// BuildStudyTipsPrompt renders a free-text instruction requesting 3-5
// actionable tips for a subject.
func BuildStudyTipsPrompt(p TipsParams) string {
	style := p.LearningStyle
	if style == "" {
		style = "visual"
	}

	return fmt.Sprintf(`Generate 3-5 specific, actionable study tips for %s at %s level.
The student prefers %s learning style.

Focus on:
- Practical techniques they can use immediately
- Subject-specific strategies
- Ways to improve retention and understanding
- Tips tailored to their learning style

Keep each tip concise but detailed enough to be actionable.`,
		p.Subject, p.Difficulty, style)
}

// truncate cuts s to at most max runes, never splitting a UTF-8 sequence.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}
