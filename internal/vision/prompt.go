// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package vision

// TitleInstruction asks for the slide title and nothing else.
const TitleInstruction = "Extract ONLY the slide title from this presentation image. " +
	"Respond with the title only, no extra words."

// OutlineInstruction asks for the agenda, table of contents or outline of a
// slide as a bullet list.
const OutlineInstruction = "Please extract the full agenda or table of contents or outline " +
	"from this slide as a bulleted list in English. " +
	"If there is no clear outline, return the main text as a list. " +
	"Do NOT include page number or extra comments. " +
	"Respond ONLY with the bullet list."
