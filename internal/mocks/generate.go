package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/fixture --output domain/fixture --outpkg fixturemock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Reader --dir ../domain/fixture --output domain/fixture --outpkg fixturemock --filename reader_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Normalizer --dir ../domain/fixture --output domain/fixture --outpkg fixturemock --filename normalizer_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name StagedWriter --dir ../domain/fixture --output domain/fixture --outpkg fixturemock --filename staged_writer_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Fetcher --dir ../domain/rawdata --output domain/rawdata --outpkg rawdatamock --filename fetcher_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Store --dir ../domain/rawdata --output domain/rawdata --outpkg rawdatamock --filename store_mock.go
