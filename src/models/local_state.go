package models

// MRootState is the typed view of the persisted local-state blob.
type MRootState struct {
	Config MAppState `mapstructure:"config" json:"config"`
}

type MAppState struct {
	Language string `mapstructure:"language" json:"language"`
}
