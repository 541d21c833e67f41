package main

// Page copy that is part of the layout rather than the owner's data files.
var (
	ProjectsBlurb = `I've worked on a variety of projects, from LLM Agents to
	mobile apps & extensions. Here are a few of my favorites.`

	ConceptsBlurb = `Early-stage ideas I'm passionate about exploring.`

	ContactBlurb = `Want to chat? Feel free to reach out via any of the links below or
	send me a message with the form.`

	BlogBlurb = `Thoughts on technology, AI, and building products.`

	HardcoreTeaser = `ssh bsquared.dev`
)
