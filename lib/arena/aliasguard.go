package arena

// Releaser is implemented by views that hold something to give back when they go out of use,
// for example a Lease.
type Releaser interface {
	Release()
}

type guardState uint8

const (
	guardLive guardState = iota
	guardMovedFirst
	guardMovedSecond
)

// AliasGuard holds two handles to the same bytes: the original F, which stays inert while the
// guard is live, and the view S that was derived from it. Exactly one of them is ever handed back
// out. Moving the first half out releases the second, moving the second half out drops the
// first without releasing anything.
type AliasGuard[F any, S any] struct {
	first  F
	second S
	state  guardState
}

// NewAliasGuard derives the second half from first. derive must not fail.
func NewAliasGuard[F any, S any](first F, derive func(F) S) *AliasGuard[F, S] {
	return &AliasGuard[F, S]{first: first, second: derive(first), state: guardLive}
}

// TryAliasGuard derives the second half from first. When derive fails, no guard is created and
// first is handed back so the caller keeps its original handle.
func TryAliasGuard[F any, S any](first F, derive func(F) (S, error)) (*AliasGuard[F, S], F, error) {
	second, err := derive(first)
	if err != nil {
		return nil, first, err
	}
	return &AliasGuard[F, S]{first: first, second: second, state: guardLive}, *new(F), nil
}

// Second returns the derived view. It panics with ErrMoved once a half was moved out.
func (g *AliasGuard[F, S]) Second() S {
	g.mustBeLive()
	return g.second
}

// MoveFirst releases the derived view and returns the original handle. The guard is dead
// afterwards.
func (g *AliasGuard[F, S]) MoveFirst() F {
	g.mustBeLive()
	if r, ok := any(g.second).(Releaser); ok {
		r.Release()
	}
	first := g.first
	g.first, g.second = *new(F), *new(S)
	g.state = guardMovedFirst
	return first
}

// MoveSecond returns the derived view and forgets the original handle. The guard is dead
// afterwards.
func (g *AliasGuard[F, S]) MoveSecond() S {
	g.mustBeLive()
	second := g.second
	g.first, g.second = *new(F), *new(S)
	g.state = guardMovedSecond
	return second
}

// Live reports whether neither half has been moved out yet
func (g *AliasGuard[F, S]) Live() bool {
	return g.state == guardLive
}

func (g *AliasGuard[F, S]) mustBeLive() {
	if g.state != guardLive {
		panic(ErrMoved)
	}
}
