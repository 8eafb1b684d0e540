package site

// Tool is one entry of the AI tools directory.
type Tool struct {
	Name        string
	Description string
	URL         string
	Category    string
}

// BoardMember is one executive board seat.
type BoardMember struct {
	Name string
	Role string
}

// Social is a contact channel shown on the contact page.
type Social struct {
	Label string
	URL   string
}

const (
	ClubName   = "AI in Business Club"
	University = "Indiana University"
	Tagline    = "Connect with Real Businesses. Learn Real AI. Build Your Future."
	Copyright  = "© 2025 AI in Business Club at Indiana University. All rights reserved."
)

// Tools is the static directory shown on the AI tools page. The plan
// generator also lists it in its instructions.
var Tools = []Tool{
	{Name: "ChatGPT", Description: "Advanced language model for natural language processing and conversational AI.", URL: "https://openai.com/chatgpt", Category: "Language Models"},
	{Name: "TensorFlow", Description: "Open-source machine learning framework for building neural networks.", URL: "https://www.tensorflow.org", Category: "ML Framework"},
	{Name: "PyTorch", Description: "Deep learning framework with a focus on flexibility and dynamic computation graphs.", URL: "https://pytorch.org", Category: "ML Framework"},
	{Name: "Scikit-learn", Description: "Python library for machine learning with simple and efficient tools.", URL: "https://scikit-learn.org", Category: "ML Library"},
	{Name: "Hugging Face", Description: "Hub for pre-trained models and tools for NLP, computer vision, and more.", URL: "https://huggingface.co", Category: "Model Hub"},
	{Name: "GitHub Copilot", Description: "AI-powered code assistant that helps you write better code faster.", URL: "https://github.com/features/copilot", Category: "Code Tools"},
	{Name: "OpenAI API", Description: "Access to powerful language models via API for custom applications.", URL: "https://openai.com/api", Category: "API"},
	{Name: "Google Colab", Description: "Free Jupyter notebook environment for machine learning and data analysis.", URL: "https://colab.research.google.com", Category: "Development"},
	{Name: "Streamlit", Description: "Turn Python scripts into interactive web apps with minimal code.", URL: "https://streamlit.io", Category: "Web Framework"},
}

// GettingStarted lists the tips under the tools directory.
var GettingStarted = []string{
	"Start with beginner-friendly tools like ChatGPT to understand AI capabilities",
	"Learn programming with Python and explore ML frameworks like TensorFlow or PyTorch",
	"Build projects and apply AI concepts to real-world business problems",
	"Join our club to collaborate and share your AI projects with the community",
}

// AboutCards are the three highlights on the home page.
var AboutCards = []struct {
	Title string
	Body  string
}{
	{"Real Businesses", "We connect students with leading businesses to understand how AI is transforming industries. Through partnerships and real projects, you'll see AI in action beyond the classroom."},
	{"Real Learning", "We host guest speakers from industry leaders, hands-on workshops, and collaborative projects. Whether you're a beginner or expert, there's always something new to learn and experience."},
	{"Real Careers", "Based in Luddy School of Informatics, we collaborate with Kelley School of Business and career services to help you land internships and full-time opportunities in AI."},
}

// About is the long-form description on the home page.
var About = []string{
	"The AI in Business Club is more than just a student organization. It's a bridge between academic learning and professional application. We're passionate about demystifying AI and showing how it's reshaping business strategy, operations, and innovation across every industry.",
	"Our members come from diverse backgrounds, from computer science and business majors to those just curious about AI. We believe everyone has a role to play in the AI revolution, and our community is here to support your journey.",
}

// Board is the executive board roster.
var Board = []BoardMember{
	{Name: "Benjamin Levens", Role: "President of AIB"},
	{Name: "Jakub Kielczewski", Role: "Vice President of AIB"},
	{Name: "Jacob Petersen", Role: "Director of Networking"},
	{Name: "Jacob Norris", Role: "Director of Programming and Events"},
	{Name: "Keira Kapadia", Role: "Director of Professional Development and Corporate Relations"},
	{Name: "Cole Chapman", Role: "Director of AI Integration"},
	{Name: "Harper Larkin", Role: "Director of Digital and Social Media"},
}

// Socials are the contact page's alternative channels.
var Socials = []Social{
	{Label: "BeInvolved", URL: "https://beinvolved.indiana.edu/organization/aib"},
	{Label: "LinkedIn", URL: "https://www.linkedin.com/company/ai-in-business-society-at-indiana-university/posts/"},
	{Label: "Instagram", URL: "https://www.instagram.com/aibindiana/"},
}
