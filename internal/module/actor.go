package module

// ActorTemplate is the static description an entity is spawned from.
type ActorTemplate struct {
	ID      string  `yaml:"id"`
	Name    string  `yaml:"name"`
	SizeID  string  `yaml:"size"`
	Faction Faction `yaml:"faction"`

	// MeleeReach is the attack distance in cells; zero means ranged or unarmed.
	MeleeReach float32 `yaml:"melee_reach"`

	// VisionRadius overrides the area default when positive.
	VisionRadius int32 `yaml:"vision_radius"`

	Size *ObjectSize `yaml:"-"`
}
