package quiz

// Multiple-choice options are addressed by letter label, not by text: the
// stored correct answer is a label ("A"), while the learner is shown the
// option text at that index. These helpers are the single place the
// label<->index mapping lives.

const maxOptions = 26 // one letter per option

// LabelForIndex returns "A" for 0, "B" for 1, and so on. Empty string for
// an index outside the labelable range.
func LabelForIndex(i int) string {
	if i < 0 || i >= maxOptions {
		return ""
	}
	return string(rune('A' + i))
}

// IndexForLabel is the inverse of LabelForIndex. Only single upper-case
// letters are valid labels; comparison at grading time is case-sensitive
// on purpose.
func IndexForLabel(label string) (int, bool) {
	if len(label) != 1 {
		return 0, false
	}
	c := label[0]
	if c < 'A' || c > 'Z' {
		return 0, false
	}
	return int(c - 'A'), true
}

// OptionForLabel resolves a label to the option text it names.
func (q Question) OptionForLabel(label string) (string, bool) {
	i, ok := IndexForLabel(label)
	if !ok || i >= len(q.Options) {
		return "", false
	}
	return q.Options[i], true
}

// OptionView pairs a label with its option text for rendering.
type OptionView struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// LabeledOptions renders the option list with letter labels attached.
func (q Question) LabeledOptions() []OptionView {
	if len(q.Options) == 0 {
		return nil
	}
	out := make([]OptionView, len(q.Options))
	for i, text := range q.Options {
		out[i] = OptionView{Label: LabelForIndex(i), Text: text}
	}
	return out
}
