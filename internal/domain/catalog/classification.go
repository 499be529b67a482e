package catalog

type Classification string

const (
	InsideHZ Classification = "Inside HZ"
	TooHot   Classification = "Too Hot"
	TooCold  Classification = "Too Cold"
)

func (c Classification) Valid() bool {
	switch c {
	case InsideHZ, TooHot, TooCold:
		return true
	default:
		return false
	}
}

func (c Classification) String() string { return string(c) }
