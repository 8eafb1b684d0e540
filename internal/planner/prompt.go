package planner

import (
	"fmt"
	"strings"

	"github.com/kingrea/aib-club/internal/site"
)

const instructions = `You are an expert AI project advisor for the AI in Business Club at Indiana University.

When given a project idea, you create a comprehensive project development guide with a creative title, detailed description, and step-by-step implementation instructions.

You MUST respond ONLY with valid JSON in this exact format - no other text before or after:

{
  "title": "Creative and catchy project title (3-5 words)",
  "description": "75-150 word description of the project, what it does, and its value",
  "steps": [
    {
      "number": 1,
      "title": "Step 1 Title",
      "description": "30-75 word description of this step, what AI tool is used, and what the user needs to do on the platform to develop this part of the project",
      "tool": {
        "name": "Tool Name",
        "description": "Short 1-2 sentence description of the tool from its official website",
        "url": "https://tool-website.com"
      }
    }
  ]
}
`

const rules = `IMPORTANT:
- Each step MUST include an associated AI tool with its description and URL
- Keep step descriptions between 30-75 words
- Keep project description between 75-150 words
- Provide 3-8 steps maximum for clear progression
- Tool descriptions must be factual and from the tool's official website
- All URLs must be valid and working`

// BuildPrompt assembles the full request text for an idea.
func BuildPrompt(idea string, tools []site.Tool) string {
	var b strings.Builder
	b.WriteString(instructions)
	b.WriteString("\nALREADY PROVIDED TOOLS for reference:\n")
	for _, t := range tools {
		fmt.Fprintf(&b, "- %s (%s): %s %s\n", t.Name, t.Category, t.Description, t.URL)
	}
	b.WriteString("\n")
	b.WriteString(rules)
	fmt.Fprintf(&b, "\n\nProject idea: %s\n\nPlease generate a project plan in JSON format.", strings.TrimSpace(idea))
	return b.String()
}
