/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package dabas

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/dabas/database"
	"github.com/tomoncle/dabas/repository"
	"github.com/tomoncle/dabas/types"
	"github.com/uptrace/bun"
)

type SystemConfig struct {
	bun.BaseModel `bun:"table:system_config,alias:sc"`

	ID          int64  `bun:"id,pk,autoincrement" json:"id"`
	ConfigKey   string `bun:"config_key,notnull,unique" json:"config_key"`
	ConfigValue string `bun:"config_value" json:"config_value"`
	ConfigType  string `bun:"config_type,notnull,default:'string'" json:"config_type"`
}

func TestService(t *testing.T) {
	database.RegisterModel((*SystemConfig)(nil), 0)

	cfg := database.DefaultConfig()
	cfg.ConnectionConfig.Type = "sqlite"
	cfg.ConnectionConfig.DSN = "file:dabas_service?mode=memory&cache=shared"
	cfg.ConnectionConfig.MaxOpenConns = 1
	cfg.ConnectionConfig.HealthCheckInterval = 0
	cfg.SchemaConfig.CreateTablesOnStartup = true

	ctx := context.Background()
	require.NoError(t, database.CloseDB())
	svc := NewService[SystemConfig]()
	_, err := svc.Count(ctx)
	assert.ErrorIs(t, err, repository.ErrInvalidModel)
	assert.Nil(t, svc.Model())

	_, err = database.InitDB(ctx, cfg)
	require.NoError(t, err)
	defer func() { _ = database.CloseDB() }()

	require.NotNil(t, svc.Model())
	assert.Equal(t, "system_config", svc.Model().Table)

	require.NoError(t, svc.Insert(ctx, &SystemConfig{ConfigKey: "site.name", ConfigValue: "dabas", ConfigType: "string"}))
	n, err := svc.BulkInsertMaps(ctx, []map[string]any{
		{"config_key": "site.port", "config_value": "8080", "config_type": "int"},
		{"config_key": "site.debug", "config_value": "false", "config_type": "bool"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	data, err := svc.Get(ctx, types.NewQuery(types.Eq("config_type", "int")))
	require.NoError(t, err)
	require.Equal(t, 1, data.Len())
	assert.Equal(t, "site.port", data.First().ConfigKey)

	updated, err := svc.Update(ctx, map[string]any{"config_key": "site.port"}, map[string]any{"config_value": "9090"})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "9090", updated.ConfigValue)

	total, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	deleted, err := svc.DeleteAll(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, deleted)
}
