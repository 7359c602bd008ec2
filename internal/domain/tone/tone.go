package tone

// Tone is the voice a generated reply is written in.
type Tone string

const (
	Professional Tone = "professional"
	Friendly     Tone = "friendly"
	Empathetic   Tone = "empathetic"
	Apologetic   Tone = "apologetic"
	Enthusiastic Tone = "enthusiastic"
)

// Default is used when a request does not pick a tone.
const Default = Professional

// OneOf is the validator tag listing every tone.
const OneOf = "oneof=professional friendly empathetic apologetic enthusiastic"

var All = []Tone{Professional, Friendly, Empathetic, Apologetic, Enthusiastic}

func (t Tone) Valid() bool {
	switch t {
	case Professional, Friendly, Empathetic, Apologetic, Enthusiastic:
		return true
	}
	return false
}

// OrDefault returns t, or Default when t is empty or unknown.
func (t Tone) OrDefault() Tone {
	if t.Valid() {
		return t
	}
	return Default
}

// Instruction is the style fragment placed in the system prompt.
func (t Tone) Instruction() string {
	switch t {
	case Friendly:
		return "Write in a warm, friendly tone. Be conversational and approachable. Use a casual but respectful style."
	case Empathetic:
		return "Write with deep empathy and understanding. Acknowledge the customer's feelings. Show genuine concern."
	case Apologetic:
		return "Write with sincere apology. Take responsibility where appropriate. Focus on making things right."
	case Enthusiastic:
		return "Write with genuine enthusiasm and gratitude. Be upbeat and positive. Show excitement about serving the customer."
	default:
		return "Write in a professional, courteous tone. Be formal but warm. Use proper grammar and avoid slang."
	}
}
