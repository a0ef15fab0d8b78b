// Package render converts stored markdown fields into sanitized HTML at read
// time. Stored markdown is never overwritten; the rendered variant travels in
// separate fields of the outgoing payload. Sanitizing at read time means a
// policy upgrade covers historical content without a migration pass.
package render

import (
	"bytes"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/AnirbanGoswamiban/SeerAI-backend/internal/model"
)

// jobDescriptionSentinel marks a job description that was never provided.
const jobDescriptionSentinel = "N/A"

var (
	markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))
	policy   = bluemonday.UGCPolicy()
)

// HTML renders untrusted markdown to sanitized HTML. The sanitizer strips
// script nodes, inline event handlers and javascript: URIs. Malformed input
// degrades to escaped plain text; this function never fails.
func HTML(source string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		return html.EscapeString(source)
	}
	return policy.Sanitize(buf.String())
}

type RoundView struct {
	model.InterviewRound
	SummaryHTML string `json:"summary_html,omitempty"`
}

// SpaceView is the read payload for a Space: the stored record plus rendered
// variants of its markdown-bearing fields.
type SpaceView struct {
	model.Space
	JobDescriptionHTML  string      `json:"job_description_html,omitempty"`
	PurifiedSummaryHTML string      `json:"purified_summary_html,omitempty"`
	InterviewRounds     []RoundView `json:"interview_rounds,omitempty"`
}

// Space builds the display view of a stored Space. Rendering is deterministic:
// the same stored record always produces byte-identical HTML.
func Space(s model.Space) SpaceView {
	view := SpaceView{Space: s}

	if jd := strings.TrimSpace(s.JobDescription); jd != "" && jd != jobDescriptionSentinel {
		view.JobDescriptionHTML = HTML(s.JobDescription)
	}
	if s.PurifiedSummary != "" {
		view.PurifiedSummaryHTML = HTML(s.PurifiedSummary)
	}

	if len(s.InterviewRounds) > 0 {
		rounds := make([]RoundView, len(s.InterviewRounds))
		for i, round := range s.InterviewRounds {
			rv := RoundView{InterviewRound: round}
			if round.Summary != "" && round.Status != model.RoundStatusNotCompleted {
				rv.SummaryHTML = HTML(round.Summary)
			}
			rounds[i] = rv
		}
		view.InterviewRounds = rounds
	}
	return view
}
