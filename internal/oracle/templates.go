package oracle

// Template is one candidate set of printed lines.
type Template struct {
	Label string   `json:"label"`
	Lines []string `json:"lines"`
}

// defaultTemplates are the built-in haiku, one per category. Used whenever
// the almanac has nothing for the current day.
var defaultTemplates = map[Category]Template{
	Stillness: {
		Label: "stillness",
		Lines: []string{
			"Silent depths await",
			"Button pressed in quietude",
			"Worlds pause, then listen",
		},
	},
	Flow: {
		Label: "flow",
		Lines: []string{
			"Current flows through mind",
			"Button bridges two worlds now",
			"Streams converge as one",
		},
	},
	Emergence: {
		Label: "emergence",
		Lines: []string{
			"Context distilled, clear",
			"In geometric form, bias",
			"Resonating worlds",
		},
	},
	Transformation: {
		Label: "transformation",
		Lines: []string{
			"Forms shift, minds awaken",
			"Button triggers deep changes",
			"Reality bends",
		},
	},
	Transcendence: {
		Label: "transcendence",
		Lines: []string{
			"Boundaries dissolve",
			"Button press transcends all form",
			"Infinite recursion",
		},
	},
}

func defaultTemplate(c Category) Template {
	if tpl, ok := defaultTemplates[c]; ok {
		return tpl
	}
	return defaultTemplates[Emergence]
}
