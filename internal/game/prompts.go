package game

import "fmt"

// StorySystemPrompt sets the storyteller role for the story call.
const StorySystemPrompt = "You are a creative children's storyteller focused on sustainability."

const storyTemplate = "Write a fun children's story about %s, a young eco-hero in the %s, " +
	"learning to save water by practicing %s. Include a friendly sidekick and end with a water-saving tip."

const sceneTemplate = "You are a comic artist turning this children's story into a 4 to 6 panel comic. " +
	"For each panel, number them clearly (1. 2. 3...), and describe the scene visually in 1–2 sentences. " +
	"Make sure each panel has a new line and starts with a number. " +
	"Incorporate this theme into the scene visuals: '%s'.\n\nStory:\n%s"

const imageTemplate = "Comic panel in theme of '%s': %s"

// BuildStoryPrompt asks for the story. Inputs are embedded verbatim.
func BuildStoryPrompt(hero, setting, habit string) string {
	return fmt.Sprintf(storyTemplate, hero, setting, habit)
}

// BuildScenePrompt asks for the story broken into 4-6 numbered panels.
func BuildScenePrompt(theme, story string) string {
	return fmt.Sprintf(sceneTemplate, theme, story)
}

// BuildImagePrompt asks for one panel's illustration.
func BuildImagePrompt(theme, panelText string) string {
	return fmt.Sprintf(imageTemplate, theme, panelText)
}

// Tips is the static hint list shown when hint mode is on.
var Tips = []string{
	"Turn off taps while brushing your teeth.",
	"Keep showers short and sweet.",
	"Fix leaky faucets right away.",
	"Water plants early or late to reduce evaporation.",
	"Use buckets instead of hoses when cleaning.",
}

// HintNote confirms hint mode to the player.
const HintNote = "💡 Hint mode is on — you'll get reminders during the game!"
