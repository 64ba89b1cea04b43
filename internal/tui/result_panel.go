package tui

import (
	"fmt"
	"strings"

	"oratio-cli/internal/app"

	"github.com/charmbracelet/bubbles/viewport"
)

// ResultPanel is a read-only view of an analysis result: either the one that
// just came back or a record picked from the history panel.
type ResultPanel struct {
	vp       viewport.Model
	theme    Theme
	title    string
	hasValue bool
}

func NewResultPanel(theme Theme) ResultPanel {
	vp := viewport.New(60, 10)
	return ResultPanel{vp: vp, theme: theme}
}

func (p *ResultPanel) SetSize(width, height int) {
	p.vp.Width = width
	p.vp.Height = height
}

func (p *ResultPanel) SetResult(title string, res app.AnalysisResult) {
	p.title = title
	p.hasValue = true
	p.vp.SetContent(renderResult(p.theme, res, p.vp.Width))
	p.vp.GotoTop()
}

func (p *ResultPanel) ScrollDown() { p.vp.LineDown(1) }
func (p *ResultPanel) ScrollUp()   { p.vp.LineUp(1) }

func (p ResultPanel) View(t Theme) string {
	var b strings.Builder
	title := p.title
	if title == "" {
		title = "Result"
	}
	b.WriteString(t.PaneTitle.Render(title))
	b.WriteString("\n")
	if !p.hasValue {
		b.WriteString(t.TopBarMeta.Render("submit a text to see its bias analysis"))
		return b.String()
	}
	b.WriteString(p.vp.View())
	return b.String()
}

func renderResult(t Theme, res app.AnalysisResult, width int) string {
	var b strings.Builder

	verdict := t.Suggest.Render("no bias detected")
	if res.Summary.BiasedCount > 0 {
		plural := "fragment"
		if res.Summary.BiasedCount != 1 {
			plural = "fragments"
		}
		verdict = t.ErrText.Render(fmt.Sprintf("%d biased %s", res.Summary.BiasedCount, plural))
	}
	b.WriteString(fmt.Sprintf("score %.2f · %s\n\n", res.Summary.Score, verdict))

	for _, s := range res.Sentences {
		b.WriteString(renderSentence(t, s))
		b.WriteString("\n")
		if len(s.BiasedSpans) > 0 && s.Suggestion != "" && s.Suggestion != s.Sentence {
			b.WriteString(t.Suggest.Render("  ↳ " + s.Suggestion))
			b.WriteString("\n")
		}
		for _, span := range s.BiasedSpans {
			b.WriteString(t.TopBarMeta.Render(fmt.Sprintf("    %s: %q", span.Type, span.Text)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderSentence highlights the biased spans in place. Span offsets come from
// the analyzer; anything out of range falls back to the plain sentence.
func renderSentence(t Theme, s app.SentenceAnalysis) string {
	if len(s.BiasedSpans) == 0 {
		return s.Sentence
	}
	var b strings.Builder
	last := 0
	for _, span := range s.BiasedSpans {
		if span.Start < last || span.End > len(s.Sentence) || span.Start > span.End {
			return s.Sentence
		}
		b.WriteString(s.Sentence[last:span.Start])
		b.WriteString(t.Highlight.Render(s.Sentence[span.Start:span.End]))
		last = span.End
	}
	b.WriteString(s.Sentence[last:])
	return b.String()
}
