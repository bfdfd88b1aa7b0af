package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/game --output domain/game --outpkg gamemock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/gameevent --output domain/gameevent --outpkg gameeventmock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/boxscore --output domain/boxscore --outpkg boxscoremock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name SeasonRepository --dir ../domain/boxscore --output domain/boxscore --outpkg boxscoremock --filename season_repository_mock.go
