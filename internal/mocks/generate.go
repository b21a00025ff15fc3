package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Catalog --dir ../domain/warehouse --output domain/warehouse --outpkg warehousemock --filename catalog_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Inserter --dir ../domain/warehouse --output domain/warehouse --outpkg warehousemock --filename inserter_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Source --dir ../domain/fixture --output domain/fixture --outpkg fixturemock --filename source_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Source --dir ../domain/odds --output domain/odds --outpkg oddsmock --filename source_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Source --dir ../domain/reference --output domain/reference --outpkg referencemock --filename source_mock.go
