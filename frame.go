// Package orthobloch is an interactive Bloch sphere viewer.
//
// The viewer holds a single bloch.Selection. Every change to it, whether a
// preset key or an angle step, runs one recompute:
//
//	sel := bloch.FromPreset(p)             // or bloch.Explicit(θ, φ)
//	s := orthobloch.Frame(sel, opts)       // reference, target, scene
//	term.Render(s)                         // replaces the previous frame
//
// Frame is pure; the Viewer is a bubbletea model around it.
package orthobloch

import (
	"github.com/teranos/orthobloch/bloch"
	"github.com/teranos/orthobloch/scene"
)

// Frame recomputes the scene for a selection: the |0⟩ reference against the
// selected target, labelled with the selection's label.
func Frame(sel bloch.Selection, opts scene.BuildOptions) scene.Scene {
	return scene.BuildWithOptions(bloch.Reference(), sel.Vector(), sel.Label(), opts)
}
