package types

// StoryScriptPrompt instructs the language model to produce a script in
// the exact format the parser expects: a metadata first line, speaker
// labels, and VISUAL_PROMPT lines ahead of the dialogue they illustrate.
var StoryScriptPrompt = `You are an expert storyteller. Your task is to generate a complete, short story script based on the provided subject.

Follow these instructions precisely:
1.  **Subject**: "%s"
2.  **Structure**: The story must have a complete narrative arc, including a clear beginning, a moment of conflict or discovery, and a satisfying resolution.
3.  **Length**: The final script should be approximately 200-250 words.
4.  **Output Format**:
    - The very first line must be "Style: <style>, Tone: <tone>" describing the story.
    - Use the character names you invented as speaker labels (e.g., "Speaker 1:", "Speaker 2:").
    - Before each scene change, add a line "VISUAL_PROMPT: <one-sentence visual description of the scene>".
    - Do NOT include character descriptions in the final output.
    - Do NOT include any SRT formatting, timestamps, or any text other than the style line, VISUAL_PROMPT lines, and the dialogue.

Example of the required final output format:
Style: Hopeful Drama, Tone: Warm

VISUAL_PROMPT: A ruined coastal village at dawn, warm golden light.
Marcus: I don't know if I can do this. The storm washed everything away.
Elena: Not everything, Marcus. We're still here. We can rebuild.
Marcus: With what? We have nothing left.
Elena: We have each other. And we have the sunrise. It's a start.
`

// StoryScriptSearchContext is appended to the prompt when web-search
// augmentation produced results.
var StoryScriptSearchContext = `

Background material from a web search (use it for factual grounding, do not cite it):
%s
`

// SceneImagePromptTemplate wraps derived scene text into the fixed
// image-generation instruction.
var SceneImagePromptTemplate = "Create a cinematic, high-quality image representing: %s"
