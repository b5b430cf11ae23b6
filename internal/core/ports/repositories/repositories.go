package repositories

// RepositoryProvider bundles all repository facades for wiring.
type RepositoryProvider struct {
	Move         MoveRepositoryFacade
	Account      AccountRepositoryFacade
	ExchangeRate ExchangeRateRepositoryFacade
	Partner      PartnerRepositoryFacade
	Sequence     SequenceRepository
	FixedAsset   FixedAssetWriter
}
