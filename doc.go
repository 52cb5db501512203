// Package arbor is an interactive 2D visualization engine for chess opening
// trees, built on [Ebitengine].
//
// Arbor positions a position graph with a force-directed layout, derives
// cluster regions over related positions, and renders the result behind a
// pan/zoom viewport with hit testing and hover/click events. It owns no
// window and no goroutines: the engine implements [ebiten.Game] and is
// driven entirely by the host's frame loop.
//
// # Quick start
//
//	engine, err := arbor.NewEngine(arbor.DefaultOptions())
//	if err != nil {
//		log.Fatal(err)
//	}
//	engine.OnNodeEvent(func(ev arbor.NodeEvent) {
//		if ev.Type == arbor.EventClick && ev.Node != nil {
//			fmt.Println("clicked", ev.Node.ID)
//		}
//	})
//	engine.SetSnapshot(snapshot)
//	ebiten.RunGame(engine)
//
// Data flows in through [Engine.SetSnapshot] as a complete [Snapshot]; the
// engine compares id sets and re-runs layout only on real data changes. The
// view starts Uninitialized, moves through Positioning while the layout and
// initial fit run, and becomes Stable once interactive. Input while not
// Stable is rejected, never queued.
//
// Layout strategies ([ForceLayout], [DepthLayout], [RadialLayout],
// [BucketLayout], [DeclaredLayout]) are interchangeable via [Engine.SetLayout].
// Cluster detection ([Engine.SetClusterMode]) groups positions by opening
// family, by proximity to the current line, or by win-rate bucket.
//
// Animated view transitions use [gween] tweens; options load from YAML via
// [LoadOptions].
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package arbor
