package services

// ServiceContainer holds all service facades for dependency injection into
// handlers and other consumers.
type ServiceContainer struct {
	Move     MoveSvcFacade
	MoveLine MoveLineCreateSvc
	MoveTax  MoveLineTaxSvc
	Currency CurrencySvc
	Sequence SequenceSvc
}
