package models

// Activity is an entry of the static activity catalog. Sessions reference
// activities by ID only.
type Activity struct {
	ID         string `json:"id" yaml:"id"`
	DisplayKey string `json:"displayKey" yaml:"displayKey"`
	Name       string `json:"name" yaml:"name"`
}

// Label returns the human name, falling back to the display key and the ID.
func (a *Activity) Label() string {
	switch {
	case a.Name != "":
		return a.Name
	case a.DisplayKey != "":
		return a.DisplayKey
	default:
		return a.ID
	}
}

// DefaultActivities is the catalog written on first run.
func DefaultActivities() []Activity {
	return []Activity{
		{ID: "scales", DisplayKey: "activity.scales", Name: "Scales"},
		{ID: "arpeggios", DisplayKey: "activity.arpeggios", Name: "Arpeggios"},
		{ID: "technique", DisplayKey: "activity.technique", Name: "Technique"},
		{ID: "sight-reading", DisplayKey: "activity.sightReading", Name: "Sight-reading"},
		{ID: "repertoire", DisplayKey: "activity.repertoire", Name: "Repertoire"},
		{ID: "theory", DisplayKey: "activity.theory", Name: "Theory"},
		{ID: "ear-training", DisplayKey: "activity.earTraining", Name: "Ear training"},
		{ID: "improvisation", DisplayKey: "activity.improvisation", Name: "Improvisation"},
	}
}
