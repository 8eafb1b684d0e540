package planner

// Plan is a generated project development guide.
type Plan struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Steps       []Step `json:"steps"`
}

// Step is one stage of a plan, optionally paired with a recommended tool.
type Step struct {
	Number      int    `json:"number,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Tool        *Tool  `json:"tool,omitempty"`
}

// Tool is the tool a step recommends.
type Tool struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// DisplayNumber returns the step's own number, or its 1-based position when
// the reply left the number out.
func (s Step) DisplayNumber(idx int) int {
	if s.Number > 0 {
		return s.Number
	}
	return idx + 1
}
