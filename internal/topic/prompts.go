package topic

// styleGuide prefixes every generation prompt so the three short fragments
// come back in a consistent register.
const styleGuide = `You are writing a weekly AI/ML newsletter for practitioners and product leaders in AI/ML, enterprise tech, and fintech.

Voice & tone:
- Content-first, analytical, practical. No fluff. No emojis. No hype.
- Confident but humble; cite sources when making claims.
- Prefer short paragraphs (1-3 sentences), frequent subheads, and bullet lists.

Non-negotiables:
- Do NOT invent facts beyond supplied sources.
- If a claim is not in the sources, frame it as opinion or remove it.`

func topicPrompt(bullets string) string {
	return styleGuide + "\n\nFrom these weekly AI/ML items, write ONLY a single, specific, captivating topic title (max 12 words, no clickbait, no quotes, no explanations, no labels, no extra text).\n" + bullets
}

func introPrompt(topic, why string) string {
	return styleGuide + "\n\nWrite ONLY a punchy, practitioner-focused introduction (2-3 sentences) for the newsletter topic below. Use a concrete tension, question, or surprising stat as a hook. Do not include any labels, explanations, or extra text.\nTOPIC: " + topic + "\nREASONS: " + why + "\nNo markdown, no emojis, no links."
}

func summaryPrompt(topic string) string {
	return styleGuide + "\n\nWrite ONLY 2-4 sentences summarizing what the week means for practitioners for the topic: " + topic + ". Include actionable takeaways and a 'WHY IT MATTERS' block, but do not include any labels, explanations, or extra text. No markdown, no emojis, no links."
}
