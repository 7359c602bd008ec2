package generation

import (
	"fmt"
	"strings"

	"replyforge/internal/domain/tone"
)

const defaultLanguage = "English"

const replyGuidelines = `Guidelines:
- Keep responses concise (2-4 sentences for positive reviews, 3-5 for negative)
- Address specific points mentioned in the review
- For negative reviews: acknowledge the issue, apologize if appropriate, offer to resolve
- For positive reviews: express genuine gratitude, mention specifics from their review
- Always invite them back or to continue the relationship
- Never be defensive or dismissive
- Don't use generic phrases like "valued customer" excessively
- Personalize based on review content`

const improveSystemPrompt = "You are an expert editor who improves business review responses. " +
	"Make the requested changes while maintaining professionalism and the core message."

// promptInput is everything that shapes the reply prompt once the request is resolved.
type promptInput struct {
	ReviewText    string
	ReviewerName  string
	Rating        *int
	BusinessName  string
	BusinessType  string
	Tone          tone.Tone
	Instructions  []string
	ToneKeywords  []string
	AvoidKeywords []string
	Language      string
}

func buildReplyPrompts(in promptInput) (system, user string) {
	var sb strings.Builder
	sb.WriteString("You are an expert at writing review responses for businesses. ")
	sb.WriteString("Your responses help businesses maintain excellent customer relationships and online reputation.\n\n")
	sb.WriteString(in.Tone.Instruction())
	sb.WriteString("\n\n")
	sb.WriteString(replyGuidelines)
	sb.WriteString("\n")

	if len(in.ToneKeywords) > 0 {
		fmt.Fprintf(&sb, "- Where natural, reflect these brand words: %s\n", strings.Join(in.ToneKeywords, ", "))
	}
	if len(in.AvoidKeywords) > 0 {
		fmt.Fprintf(&sb, "- Never use these words: %s\n", strings.Join(in.AvoidKeywords, ", "))
	}

	var extra []string
	for _, s := range in.Instructions {
		if s = strings.TrimSpace(s); s != "" {
			extra = append(extra, s)
		}
	}
	if len(extra) > 0 {
		fmt.Fprintf(&sb, "\nAdditional instructions: %s\n", strings.Join(extra, "\n"))
	}

	lang := in.Language
	if lang == "" {
		lang = defaultLanguage
	}
	fmt.Fprintf(&sb, "\nWrite the response in %s.", lang)

	var ub strings.Builder
	ub.WriteString("Generate a response to this customer review:\n\n")
	if in.BusinessType != "" {
		fmt.Fprintf(&ub, "Business: %s is a %s.\n", in.BusinessName, in.BusinessType)
	} else {
		fmt.Fprintf(&ub, "Business: The business is %s.\n", in.BusinessName)
	}
	if in.Rating != nil {
		fmt.Fprintf(&ub, "This is a %d-star review (out of 5).\n", *in.Rating)
	}
	if in.ReviewerName != "" {
		fmt.Fprintf(&ub, "The reviewer's name is %s.\n", in.ReviewerName)
	} else {
		ub.WriteString("The reviewer's name is not provided.\n")
	}
	fmt.Fprintf(&ub, "\nReview:\n\"%s\"\n\n", in.ReviewText)
	fmt.Fprintf(&ub, "Write a %s response that addresses their specific feedback.", in.Tone)

	return sb.String(), ub.String()
}

func buildImprovePrompts(original, instruction string) (system, user string) {
	user = fmt.Sprintf("Original response:\n\"%s\"\n\nInstruction: %s\n\nProvide the improved version:", original, instruction)
	return improveSystemPrompt, user
}
