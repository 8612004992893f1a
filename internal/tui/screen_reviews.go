package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jobportal/jobportal-tui/internal/model"
)

type reviewsMsg struct {
	reviews []model.CompanyReview
	err     error
}

// reviewsScreen lists reviews for one company and lets a signed in user
// write one
type reviewsScreen struct {
	env
	companyID string
	company   string
	reviews   []model.CompanyReview
	cur       cursor
	loading   bool
	busy      bool
	status    status

	writing bool
	form    *form
}

func newReviewsScreen(e env, p params) *reviewsScreen {
	rating := newChoiceField("rating", "Rating", "5", "4", "3", "2", "1")
	rating.display = func(v string) string {
		n, _ := strconv.Atoi(v)
		return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
	}
	return &reviewsScreen{env: e, companyID: p.CompanyID, company: p.Company, loading: true,
		form: newForm(e.keys,
			rating,
			newTextField("title", "Title", true),
			newAreaField("comment", "Comment", true, 1000),
		),
	}
}

func (s *reviewsScreen) title() string { return "Reviews" }
func (s *reviewsScreen) modal() bool   { return s.writing }

func (s *reviewsScreen) init() tea.Cmd {
	if s.companyID == "" {
		s.loading = false
		s.status.set("This job has no company profile to review.", true)
		return nil
	}
	return s.load()
}

func (s *reviewsScreen) load() tea.Cmd {
	s.loading = true
	ctx, client, id := s.ctx, s.api, s.companyID
	return func() tea.Msg {
		r, err := client.CompanyReviews(ctx, id)
		return reviewsMsg{reviews: r, err: err}
	}
}

func (s *reviewsScreen) average() float64 {
	if len(s.reviews) == 0 {
		return 0
	}
	var sum int
	for _, r := range s.reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(s.reviews))
}

func (s *reviewsScreen) submit() tea.Cmd {
	if s.busy {
		return nil
	}
	if missing := s.form.missing(); len(missing) > 0 {
		s.status.set("Required: "+strings.Join(missing, ", "), true)
		return nil
	}
	rating, _ := strconv.Atoi(s.form.value("rating"))
	in := model.ReviewInput{Rating: rating, Title: s.form.value("title"), Comment: s.form.value("comment")}
	s.busy = true
	ctx, client, id := s.ctx, s.api, s.companyID
	return func() tea.Msg {
		_, err := client.SubmitCompanyReview(ctx, id, in)
		return actionDoneMsg{op: "review", id: id, err: err}
	}
}

func (s *reviewsScreen) update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case reviewsMsg:
		s.loading = false
		if msg.err != nil {
			if !quiet(msg.err) {
				s.status.set(errorText(msg.err, "Could not load reviews."), true)
			}
			return s, nil
		}
		s.reviews = msg.reviews
		s.cur.clamp(len(s.reviews))
		return s, nil

	case actionDoneMsg:
		s.busy = false
		if msg.err != nil {
			s.status.set(errorText(msg.err, "Could not submit your review."), true)
			return s, nil
		}
		s.writing = false
		s.status.set("Thanks for your review.", false)
		return s, s.load()

	case tea.KeyMsg:
		if s.writing {
			if key.Matches(msg, s.keys.Back) {
				s.writing = false
				return s, nil
			}
			submit, cmd := s.form.update(msg)
			if submit {
				return s, s.submit()
			}
			return s, cmd
		}
		if s.cur.move(msg, s.keys, len(s.reviews)) {
			return s, nil
		}
		if msg.String() == "w" && s.companyID != "" {
			if s.identity == nil {
				s.status.set("Sign in to write a review.", true)
				return s, nil
			}
			s.writing = true
			return s, s.form.start()
		}
	}

	if s.writing {
		_, cmd := s.form.update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *reviewsScreen) view(width, height int) string {
	name := s.company
	if name == "" {
		name = "this company"
	}
	if s.writing {
		return section(pageHeading("Review "+name, width), s.form.view(), s.status.view(),
			hints("←/→", "rating", "ctrl+s", "submit", "esc", "cancel"))
	}

	var list strings.Builder
	switch {
	case s.loading:
		list.WriteString(loading())
	case len(s.reviews) == 0:
		list.WriteString(empty("No reviews yet."))
	default:
		for i, r := range s.reviews {
			stars := WarningStyle.Render(strings.Repeat("★", r.Rating) + strings.Repeat("☆", max(5-r.Rating, 0)))
			line := stars + " " + r.Title + MetaStyle.Render(" · "+r.AuthorName)
			list.WriteString(row(i == s.cur.idx, line) + "\n")
		}
	}

	var detail, summary string
	if len(s.reviews) > 0 && !s.loading {
		detail = wrap(s.reviews[s.cur.idx].Comment, width-2)
		summary = MetaStyle.Render("Average rating ") +
			ScoreStyle.Render(strconv.FormatFloat(s.average(), 'f', 1, 64)) +
			MetaStyle.Render(" from "+strconv.Itoa(len(s.reviews))+" reviews")
	}

	return section(
		pageHeading("Reviews of "+name, width),
		summary,
		list.String(),
		detail,
		s.status.view(),
		hints("w", "write a review"),
	)
}
