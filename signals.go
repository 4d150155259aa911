package hxfacet

import "github.com/zoobzio/capitan"

// Css facet signals.
var (
	// CSSClassAdded is emitted when a class first gains a contributor.
	CSSClassAdded = capitan.NewSignal(
		"hxfacet.css.class.added",
		"Class applied to element",
	)

	// CSSClassRemoved is emitted when a class loses its last contributor.
	CSSClassRemoved = capitan.NewSignal(
		"hxfacet.css.class.removed",
		"Class removed from element",
	)

	// CSSResolveFailed is emitted when a rule fails for a model path.
	CSSResolveFailed = capitan.NewSignal(
		"hxfacet.css.resolve.failed",
		"Rule resolution failed",
	)

	// CSSBatchApplied is emitted after a Set batch settles.
	CSSBatchApplied = capitan.NewSignal(
		"hxfacet.css.batch.applied",
		"Batch of model values applied",
	)
)

// Component lifecycle signals.
var (
	// ComponentCreated is emitted when a component is bound to an element.
	ComponentCreated = capitan.NewSignal(
		"hxfacet.component.created",
		"Component created on element",
	)

	// ComponentClosed is emitted when a component is torn down.
	ComponentClosed = capitan.NewSignal(
		"hxfacet.component.closed",
		"Component closed",
	)
)
