package config

// Loader fills a settings value from its sources
type Loader interface {
	Load(target any) error

	// Watch calls callback after each change of the underlying source.
	// Sources that cannot change return nil without watching.
	Watch(callback func()) error
}
