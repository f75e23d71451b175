// Package mocks provides mock expectation helpers for common testing patterns
package mocks

import (
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/encounter-forge/internal/clients/generator"
	generatormock "github.com/KirkDiggler/encounter-forge/internal/clients/generator/mock"
	"github.com/KirkDiggler/encounter-forge/internal/entities"
)

// ExpectCreature sets up one successful stats call for creature index
// followed by an ability assignment that names it localizedName
func ExpectCreature(mockClient *generatormock.MockClient, enemyType string, difficulty entities.Difficulty, count, index int, localizedName string) {
	mockClient.EXPECT().
		GenerateStats(gomock.Any(), &generator.StatsInput{
			EnemyType:         enemyType,
			NumberOfCreatures: count,
			Difficulty:        difficulty,
			Index:             index,
		}).
		Return(&generator.StatsOutput{ArmorClass: 13, HitPoints: 7 + index, Speed: 30}, nil)
	mockClient.EXPECT().
		AssignAbilities(gomock.Any(), gomock.Any()).
		Return(&generator.AbilitiesOutput{
			LocalizedName:  localizedName,
			Abilities:      []string{"Nimble Escape", "Darkvision"},
			SpecialActions: []string{"Scimitar"},
		}, nil)
}

// ExpectStatsFailure makes the next stats call fail with err
func ExpectStatsFailure(mockClient *generatormock.MockClient, err error) {
	mockClient.EXPECT().
		GenerateStats(gomock.Any(), gomock.Any()).
		Return(nil, err)
}
