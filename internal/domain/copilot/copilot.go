// Package copilot is the constrained CRM chat assistant.
//
// The assistant answers questions about CRM data and engagement strategy by
// pattern-matched template selection. It never provides medical advice, never
// makes treatment recommendations, and never claims product efficacy; messages
// touching clinical topics get a fixed redirect to Medical Affairs.
package copilot

import (
	"strings"

	"github.com/spf13/cast"
)

// ModelVersion is the audit tag for the copilot template set.
const ModelVersion = "copilot-v1.0"

// Message is one turn in the conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Input is a copilot chat request. UserID is required at the HTTP boundary;
// Context carries optional CRM context such as the user's territory.
type Input struct {
	Messages []Message      `json:"messages"`
	Context  map[string]any `json:"context,omitempty"`
	UserID   string         `json:"userId"`
}

// Result is the assistant's reply.
type Result struct {
	Content      string `json:"content"`
	ModelVersion string `json:"modelVersion"`
	TokensUsed   int    `json:"tokensUsed"`
}

// guardrailPhrases trigger the medical-content refusal. Matching is
// substring, case-insensitive, over the last user message.
var guardrailPhrases = []string{
	"prescribe", "dosage", "side effect", "adverse event",
	"treatment", "diagnosis", "clinical trial", "off-label",
	"indication", "contraindication", "drug interaction",
}

const guardrailResponse = "I can help with CRM and engagement strategy questions, but I cannot " +
	"provide medical information, treatment recommendations, or clinical guidance. " +
	"Please consult your Medical Affairs team for clinical questions.\n\n" +
	"I can help you with:\n" +
	"- HCP engagement strategies\n" +
	"- Visit planning and optimization\n" +
	"- Territory performance analysis\n" +
	"- Campaign management\n" +
	"- Compliance questions\n\n" +
	"What CRM-related question can I help with?"

// Assistant selects template responses for CRM questions.
type Assistant struct{}

// NewAssistant constructs a copilot assistant.
func NewAssistant() *Assistant {
	return &Assistant{}
}

// Chat processes the conversation and returns a reply. Guardrailed replies
// report zero tokens used; template replies report their word count.
func (a *Assistant) Chat(in Input) Result {
	lastMessage := ""
	if len(in.Messages) > 0 {
		lastMessage = in.Messages[len(in.Messages)-1].Content
	}

	lower := strings.ToLower(lastMessage)
	for _, phrase := range guardrailPhrases {
		if strings.Contains(lower, phrase) {
			return Result{Content: guardrailResponse, ModelVersion: ModelVersion, TokensUsed: 0}
		}
	}

	response := respond(lower, in.Context)
	return Result{
		Content:      response,
		ModelVersion: ModelVersion,
		TokensUsed:   len(strings.Fields(response)),
	}
}

// Guardrailed reports whether a result is the medical-content refusal.
func Guardrailed(r Result) bool {
	return r.Content == guardrailResponse
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// respond selects the reply template. In production this would call an LLM
// behind pharma-specific guardrails; the template set demonstrates the
// intended behavior and keeps responses fully deterministic.
func respond(lower string, context map[string]any) string {
	switch {
	case containsAny(lower, "visit", "plan", "schedule", "route"):
		return "For visit planning, I recommend:\n\n" +
			"1. **Review AI suggestions** - Check your visit suggestions on the Field Force tab. " +
			"These are prioritized by engagement score and recency.\n" +
			"2. **Check consent status** - Ensure all target HCPs have active visit consent.\n" +
			"3. **Consider territory coverage** - Balance high-value targets with coverage goals.\n" +
			"4. **Review pending tasks** - Address any overdue follow-ups.\n\n" +
			"Would you like me to pull up specific HCP data or territory analytics?"

	case containsAny(lower, "perform", "metric", "kpi", "dashboard", "analytics"):
		scope := "your"
		if territory := cast.ToString(context["territory"]); territory != "" {
			scope = "the " + territory + " territory's"
		}
		return "I can help interpret " + scope + " performance metrics. Key areas to review:\n\n" +
			"- **Reach rate**: % of target HCPs contacted in the period\n" +
			"- **Interaction quality**: Average sentiment scores across channels\n" +
			"- **Channel mix**: Distribution of engagement across channels\n" +
			"- **Follow-up rate**: % of planned follow-ups completed on time\n\n" +
			"Check the Analytics dashboard for real-time data. " +
			"Would you like help interpreting specific metrics?"

	case containsAny(lower, "campaign", "email", "send"):
		return "For email campaigns:\n\n" +
			"1. Campaigns must be **compliance-approved** before scheduling\n" +
			"2. Only HCPs with **email consent** will receive communications\n" +
			"3. Check campaign metrics (open rate, click rate) in the Omnichannel section\n" +
			"4. Segment targeting ensures relevant messaging\n\n" +
			"Need help creating or reviewing a campaign?"

	case containsAny(lower, "consent", "gdpr", "compliance"):
		return "Regarding compliance and consent:\n\n" +
			"- All HCP engagements require **active consent** for the specific channel\n" +
			"- Consent records are **immutable** - new records override old ones\n" +
			"- GDPR data subject reports are available through Compliance module\n" +
			"- The audit log tracks all data access and modifications\n\n" +
			"For detailed compliance questions, consult your Compliance Officer."

	case containsAny(lower, "score", "engagement", "propensity"):
		return "AI engagement scores help prioritize your outreach:\n\n" +
			"- **Score (0-100)**: Higher = more likely to engage\n" +
			"- **Confidence (0-1)**: Data quality indicator\n" +
			"- **Factors**: Each score includes a full breakdown of contributing factors\n\n" +
			"Scores update based on recent interactions and are available on each HCP profile. " +
			"Use them as a guide, not a rule - your professional judgment always takes priority."

	default:
		return "I'm your CRM assistant. I can help with:\n\n" +
			"- **Visit planning** - Optimize your daily schedule\n" +
			"- **HCP insights** - Engagement scores and interaction history\n" +
			"- **Performance metrics** - Understand your KPIs\n" +
			"- **Campaign management** - Email and omnichannel engagement\n" +
			"- **Compliance** - Consent status and audit information\n\n" +
			"What would you like to know more about?"
	}
}
