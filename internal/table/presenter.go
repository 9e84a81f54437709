package table

import (
	"time"

	"github.com/pakalnivut/backend/internal/clockgap"
	"github.com/pakalnivut/backend/internal/dispatchlog"
	"github.com/pakalnivut/backend/internal/models"
)

// Presenter builds views from a repository and applies spot edits made
// against a sorted view.
type Presenter struct {
	repo dispatchlog.Repository
	now  func() time.Time
}

// NewPresenter creates a Presenter. now defaults to time.Now.
func NewPresenter(repo dispatchlog.Repository, now func() time.Time) *Presenter {
	if now == nil {
		now = time.Now
	}
	return &Presenter{repo: repo, now: now}
}

// View returns nav's current table sorted per state.
func (p *Presenter) View(nav models.NavigatorID, state State) View {
	return Build(nav, p.repo.Load(nav), clockgap.FromTime(p.now()), state)
}

// IncrementSpot adds a spot to the entry shown at viewIndex in the view
// sorted per state, then returns the refreshed view.
func (p *Presenter) IncrementSpot(nav models.NavigatorID, state State, viewIndex int) (View, error) {
	return p.editSpot(nav, state, viewIndex, p.repo.IncrementSpot)
}

// ResetSpot zeroes the spots of the entry shown at viewIndex.
func (p *Presenter) ResetSpot(nav models.NavigatorID, state State, viewIndex int) (View, error) {
	return p.editSpot(nav, state, viewIndex, p.repo.ResetSpot)
}

func (p *Presenter) editSpot(nav models.NavigatorID, state State, viewIndex int, edit func(models.NavigatorID, int) error) (View, error) {
	if idx, ok := p.View(nav, state).StorageIndex(viewIndex); ok {
		if err := edit(nav, idx); err != nil {
			return View{}, err
		}
	}
	return p.View(nav, state), nil
}
