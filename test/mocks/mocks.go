// test/mocks/mocks.go

// Package mocks contains generated mocks for the application's interfaces.
// To regenerate mocks, run `make mocks` from the root directory.
package mocks

//go:generate mockgen -source=../../internal/core/ports/product_store.go -destination=product_store_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/sale_store.go -destination=sale_store_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/sale_engine.go -destination=sale_engine_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/catalog_service.go -destination=catalog_service_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/cache.go -destination=cache_repository_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/report.go -destination=report_mock.go -package=mocks
