package ecs

import (
	"strings"

	"github.com/milk9111/bee2d/affine"
	"github.com/milk9111/bee2d/render"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

var easings = map[string]ease.TweenFunc{
	"linear":       ease.Linear,
	"inquad":       ease.InQuad,
	"outquad":      ease.OutQuad,
	"inoutquad":    ease.InOutQuad,
	"incubic":      ease.InCubic,
	"outcubic":     ease.OutCubic,
	"inoutcubic":   ease.InOutCubic,
	"insine":       ease.InSine,
	"outsine":      ease.OutSine,
	"inoutsine":    ease.InOutSine,
	"inexpo":       ease.InExpo,
	"outexpo":      ease.OutExpo,
	"inoutexpo":    ease.InOutExpo,
	"inback":       ease.InBack,
	"outback":      ease.OutBack,
	"inoutback":    ease.InOutBack,
	"inbounce":     ease.InBounce,
	"outbounce":    ease.OutBounce,
	"inoutbounce":  ease.InOutBounce,
	"inelastic":    ease.InElastic,
	"outelastic":   ease.OutElastic,
	"inoutelastic": ease.InOutElastic,
}

// Easing looks up an easing function by case-insensitive name, ignoring
// dashes and underscores ("in_out_quad", "InOutQuad"). Empty means linear.
func Easing(name string) (ease.TweenFunc, bool) {
	key := strings.ToLower(name)
	key = strings.NewReplacer("_", "", "-", "", " ", "").Replace(key)
	if key == "" {
		key = "linear"
	}
	fn, ok := easings[key]
	return fn, ok
}

// Tween moves its owner's local position to To over Duration seconds. The
// start position is captured when the component starts.
type Tween struct {
	To       affine.Vec2
	Duration float32
	Ease     ease.TweenFunc

	x, y *gween.Tween
	done bool
}

// Done reports whether the tween has reached its target.
func (tw *Tween) Done() bool {
	return tw.done
}

func (tw *Tween) Start(c *Component) error {
	fn := tw.Ease
	if fn == nil {
		fn = ease.Linear
	}
	from := c.Tree().LocalPosition(c.Node())
	tw.x = gween.New(float32(from.X), float32(tw.To.X), tw.Duration, fn)
	tw.y = gween.New(float32(from.Y), float32(tw.To.Y), tw.Duration, fn)
	return nil
}

func (tw *Tween) Update(c *Component, dt float64) error {
	if tw.done || tw.x == nil {
		return nil
	}
	x, doneX := tw.x.Update(float32(dt))
	y, doneY := tw.y.Update(float32(dt))
	tw.done = doneX && doneY
	pos := affine.V(float64(x), float64(y))
	if tw.done {
		pos = tw.To
	}
	tree, node := c.Tree(), c.Node()
	if !tree.IsAlive(node) {
		return nil
	}
	return tree.SetLocalPosition(node, pos)
}

func (tw *Tween) Draw(c *Component, q *render.Queue) error {
	return nil
}

// Duplicate copies the target and easing; the copy starts fresh from its own
// owner's position.
func (tw *Tween) Duplicate() Behavior {
	return &Tween{To: tw.To, Duration: tw.Duration, Ease: tw.Ease}
}
