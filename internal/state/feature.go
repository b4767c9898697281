package state

// Feature identifies one coarse domain area. It is the key for the
// shared loading/error slots: one slot per feature, never per request.
type Feature string

const (
	FeatureAuth        Feature = "auth"
	FeatureCycles      Feature = "cycles"
	FeatureMedications Feature = "medications"
	FeatureChat        Feature = "chat"
	FeaturePartner     Feature = "partner"
	FeatureCommunity   Feature = "community"
)

// Features lists every feature in a stable order.
func Features() []Feature {
	return []Feature{
		FeatureAuth,
		FeatureCycles,
		FeatureMedications,
		FeatureChat,
		FeaturePartner,
		FeatureCommunity,
	}
}
