package composite

// Option configures a Map or a Set.
type Option func(*options)

type options struct {
	identityKeys bool
	capacity     int
}

// WithIdentityKeys makes the container compare composite keys by identity
// only, the way a plain Go map would. Two structurally equal composites then
// occupy two entries.
func WithIdentityKeys() Option {
	return func(o *options) { o.identityKeys = true }
}

// WithCapacity preallocates room for n keys.
func WithCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.capacity = n
		}
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
