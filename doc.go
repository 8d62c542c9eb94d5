// Package backdrop renders interactive particle fields for [Ebitengine].
//
// A [Field] is a fixed set of particles that drift, respond to the pointer
// and fade in and out over their lifetime. Fields mount onto a [Surface],
// which implements [ebiten.Game], dispatches pointer and resize events, and
// composites every mounted field once per frame.
//
// # Quick start
//
//	surface := backdrop.NewSurface(1024, 640)
//	field, err := backdrop.NewField(backdrop.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//	field.Mount(surface)
//	backdrop.Run(ctx, surface, backdrop.RunConfig{Title: "Backdrop", Resizable: true})
//
// Run returns when the window closes or ctx is done; every field is unmounted
// first.
//
// # Physics
//
// Each frame, in order, a particle receives ambient noise, the pointer force
// (repel or attract, falling off linearly to zero at InteractionRadius), a
// spring pull toward its spawn origin, friction, and finally moves. Life then
// decays; particles whose life runs out are respawned in place, so the count
// never changes. The step is frame based: the same seed and the same pointer
// input always give the same particles.
//
// # Presets
//
// [DefaultConfig] is the "micro" preset. [Preset] returns the built-ins by
// name and [ParsePreset] reads YAML files that extend them:
//
//	base: drift
//	count: 120
//	colors: ["#3b82f6", "#ec4899"]
//	blend: lighter
//	fadeIn: 2s
//
// # Other surfaces
//
// Rendering goes through the [Painter] interface. The termview package draws
// a field in a terminal; [Field.Start], [Field.Update] and [Field.Draw] are all
// a backend needs.
//
// [Ebitengine]: https://ebitengine.org
package backdrop
