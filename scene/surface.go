package scene

// Surface displays a scene. Implementations own their output sink; a failed
// sink is reported as an error and never retried.
type Surface interface {
	Display(s Scene) error
}
