package query

const (
	WelcomeMessage = "Hello! I'm your AI Data Agent. Ask me complex analytical questions about your business data."
	ErrorMessage   = "Sorry, I encountered an error while processing your request. Please try again."
)

// ExampleQuestions are offered in the UI; each one reaches a different
// routine except the per-customer one, which the region rule claims first.
var ExampleQuestions = []string{
	"Show me revenue by region",
	"How has our revenue trended over time?",
	"What's the distribution of customers by region?",
	"What's our revenue per customer by region?",
	"Show me growth analysis from January to May",
}
