package model

// Domain describes one interview track: what it covers and how it is leveled.
type Domain struct {
	Key              string   `json:"key" yaml:"key" bson:"key"`
	Name             string   `json:"name" yaml:"name" bson:"name"`
	Topics           []string `json:"topics" yaml:"topics" bson:"topics"`
	DifficultyLevels []string `json:"difficultyLevels" yaml:"difficulty_levels" bson:"difficultyLevels"`
	FocusAreas       []string `json:"focusAreas" yaml:"focus_areas" bson:"focusAreas"`
}

// StudyResource is a curated learning resource attached to a domain's
// post-interview recommendations.
type StudyResource struct {
	Title string `json:"title" yaml:"title" bson:"title"`
	URL   string `json:"url" yaml:"url" bson:"url"`
	Type  string `json:"type" yaml:"type" bson:"type"`
}
