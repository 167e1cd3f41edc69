//go:build integration

package gorm_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/multivarka/kitchen/test/testutils"
)

func TestPostgresRepositories(t *testing.T) {
	testDB := testutils.SetupTestDatabase(t)

	suite.Run(t, &RepositoryTestSuite{
		openDB: func(t *testing.T) *gorm.DB {
			require.NoError(t, testDB.TruncateAllTables())
			return testDB.GormDB
		},
	})
}
