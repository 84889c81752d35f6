package domain

// NFTCategory identifies the kind of asset behind a listing.
type NFTCategory string

const (
	CategoryWearable NFTCategory = "wearable"
	CategoryParcel   NFTCategory = "parcel"
	CategoryEstate   NFTCategory = "estate"
	CategoryENS      NFTCategory = "ens"
)

// WearableRarity is the scarcity tier of a wearable.
type WearableRarity string

const (
	RarityCommon    WearableRarity = "common"
	RarityUncommon  WearableRarity = "uncommon"
	RarityRare      WearableRarity = "rare"
	RarityEpic      WearableRarity = "epic"
	RarityLegendary WearableRarity = "legendary"
	RarityMythic    WearableRarity = "mythic"
	RarityUnique    WearableRarity = "unique"
)

// WearableGender is a user-facing gender filter value.
type WearableGender string

const (
	GenderMale   WearableGender = "male"
	GenderFemale WearableGender = "female"
)

// Body shape enum values as the indexer stores them.
// These are embedded as GraphQL enum literals, never quoted.
const (
	BodyShapeMale   = "BaseMale"
	BodyShapeFemale = "BaseFemale"
)

// NFT is a single marketplace asset as returned by the indexing service.
type NFT struct {
	ID              string
	ContractAddress string
	TokenID         string
	Category        NFTCategory
	Name            string
	Image           string
	Owner           string
	Network         string
}
