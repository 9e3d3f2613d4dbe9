// Package persistentview binds a collection view to its stored preference and,
// optionally, to the URL. It performs the side effects reconcile plans.
package persistentview

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"viewsync/internal/domain"
	"viewsync/internal/preference"
	"viewsync/internal/query"
	"viewsync/internal/reconcile"
)

var ErrNothingToReset = errors.New("view has nothing to reset")

type Options struct {
	Slug      string
	Namespace string

	DefaultView domain.View

	// Location binds the view to a URL. Leave nil for views that only persist.
	Location     query.Location
	FilterFields []string

	Preferences *preference.Client
	Logger      *zap.Logger
}

type PersistentView struct {
	slug         string
	name         string
	defaultView  domain.View
	location     query.Location
	filterFields []string
	prefs        *preference.Client
	logger       *zap.Logger
}

// State mirrors what a screen needs: the view, a way to change it and, only
// when there is something to reset, a way to reset it.
type State struct {
	View   domain.View
	Update func(ctx context.Context, view domain.View) error
	Reset  func(ctx context.Context) error
}

func New(opts Options) (*PersistentView, error) {
	name, err := preference.Name(opts.Namespace, opts.Slug)
	if err != nil {
		return nil, err
	}
	if opts.Preferences == nil {
		return nil, errors.New("persistent view needs a preference client")
	}

	defaultView := opts.DefaultView.Clone()
	if err := defaultView.Validate(); err != nil {
		return nil, fmt.Errorf("default view for %q: %w", opts.Slug, err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &PersistentView{
		slug:         opts.Slug,
		name:         name,
		defaultView:  defaultView,
		location:     opts.Location,
		filterFields: append([]string(nil), opts.FilterFields...),
		prefs:        opts.Preferences,
		logger:       logger.With(zap.String("slug", opts.Slug)),
	}, nil
}

func (pv *PersistentView) Slug() string {
	return pv.slug
}

// PreferenceName is where the view is stored.
func (pv *PersistentView) PreferenceName() string {
	return pv.name
}

func (pv *PersistentView) DefaultView() domain.View {
	return pv.defaultView.Clone()
}

type loaded struct {
	in reconcile.Input
	// stored is true when a preference blob exists, valid or not
	stored bool
}

func (pv *PersistentView) load(ctx context.Context) (loaded, error) {
	raw, err := pv.prefs.Fetch(ctx, pv.name)
	if err != nil {
		return loaded{}, err
	}

	l := loaded{
		in: reconcile.Input{
			DefaultView:  pv.defaultView,
			FilterFields: pv.filterFields,
		},
		stored: raw != nil,
	}

	if raw != nil {
		persisted, err := domain.DecodePersistedView(raw)
		if err != nil {
			// fall back to the default rather than render a broken view
			pv.logger.Warn("ignoring malformed stored view",
				zap.String("preference", pv.name),
				zap.Error(err))
		} else {
			l.in.Persisted = persisted
		}
	}

	if pv.location != nil {
		l.in.Params = pv.location.CurrentParams()
	}

	return l, nil
}

// View returns the view to render.
func (pv *PersistentView) View(ctx context.Context) (domain.View, error) {
	l, err := pv.load(ctx)
	if err != nil {
		return domain.View{}, err
	}
	return reconcile.ComputeView(l.in), nil
}

// UpdateView moves the URL and the stored preference to newView. The
// preference write is not waited on.
func (pv *PersistentView) UpdateView(ctx context.Context, newView domain.View) error {
	if err := newView.Validate(); err != nil {
		return err
	}

	l, err := pv.load(ctx)
	if err != nil {
		return err
	}

	plan := reconcile.PlanUpdate(l.in, newView)

	if plan.Navigate {
		pv.logger.Debug("navigating", zap.String("query", plan.NextParams.Encode()))
		pv.location.Navigate(plan.NextParams)
	}

	switch plan.Action {
	case reconcile.PersistWrite:
		data, err := domain.EncodePersistedView(plan.Persist)
		if err != nil {
			return err
		}
		if err := pv.prefs.Write(pv.name, data); err != nil {
			return fmt.Errorf("failed to save view %q: %w", pv.slug, err)
		}
	case reconcile.PersistClear:
		if err := pv.prefs.Clear(pv.name); err != nil {
			return fmt.Errorf("failed to clear view %q: %w", pv.slug, err)
		}
	}

	pv.logger.Debug("view updated",
		zap.Stringer("persist", plan.Action),
		zap.Bool("navigated", plan.Navigate))

	return nil
}

// CanReset reports whether a stored view differs from the default. A stored
// blob that cannot be read counts as resettable.
func (pv *PersistentView) CanReset(ctx context.Context) (bool, error) {
	l, err := pv.load(ctx)
	if err != nil {
		return false, err
	}
	return canReset(l), nil
}

func canReset(l loaded) bool {
	if l.stored && l.in.Persisted == nil {
		return true
	}
	return reconcile.CanReset(l.in)
}

// ResetView clears the stored view so the default applies again.
func (pv *PersistentView) ResetView(ctx context.Context) error {
	l, err := pv.load(ctx)
	if err != nil {
		return err
	}
	if !canReset(l) {
		return ErrNothingToReset
	}

	if err := pv.prefs.Clear(pv.name); err != nil {
		return fmt.Errorf("failed to reset view %q: %w", pv.slug, err)
	}
	pv.logger.Debug("view reset")
	return nil
}

func (pv *PersistentView) State(ctx context.Context) (*State, error) {
	l, err := pv.load(ctx)
	if err != nil {
		return nil, err
	}

	state := &State{
		View:   reconcile.ComputeView(l.in),
		Update: pv.UpdateView,
	}
	if canReset(l) {
		state.Reset = pv.ResetView
	}
	return state, nil
}
