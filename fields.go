package hxfacet

import "github.com/zoobzio/capitan"

// Field keys for facet and component events.
var (
	// KeyPath is the model path that triggered an update.
	KeyPath = capitan.NewStringKey("path")

	// KeyClass is the CSS class added or removed.
	KeyClass = capitan.NewStringKey("class")

	// KeyError is the error message when resolution fails.
	KeyError = capitan.NewStringKey("error")

	// KeyCount is the number of paths in a batch.
	KeyCount = capitan.NewIntKey("count")

	// KeyComponent is the component class name.
	KeyComponent = capitan.NewStringKey("component")

	// KeyID is the component instance id.
	KeyID = capitan.NewStringKey("id")
)
