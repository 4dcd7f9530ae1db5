package auth

// Decision is the outcome of a single guard evaluation. It is produced per
// operation and never cached.
type Decision struct {
	Allow  bool
	Reason string
}

func allow() Decision { return Decision{Allow: true} }

func deny(reason string) Decision { return Decision{Reason: reason} }
