package iot

import (
	"bufio"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"liyu1981.xyz/w1-temperature-service/pkg/db"
	"liyu1981.xyz/w1-temperature-service/pkg/iot/mocks"
)

func GetMockIOTWithMemorySqliteDialector(t *testing.T, useMockISensor, useMockISample, useMockIAlert bool) (
	*gomock.Controller,
	*IOT,
	*mocks.MockISensor,
	*mocks.MockISample,
	*mocks.MockIAlert,
) {
	ctrl := gomock.NewController(t)

	mockISensor := mocks.NewMockISensor(ctrl)
	mockISample := mocks.NewMockISample(ctrl)
	mockIAlert := mocks.NewMockIAlert(ctrl)

	dbInstance, err := db.Open(db.UseIsolatedMemorySqliteDialector())
	require.NoError(t, err)
	iotInstance := New(dbInstance)

	opts := ServiceOpts{}
	if useMockISensor {
		opts.Sensor = mockISensor
	}
	if useMockISample {
		opts.Sample = mockISample
	}
	if useMockIAlert {
		opts.Alert = mockIAlert
	}
	iotInstance.WithServices(opts)

	return ctrl, iotInstance, mockISensor, mockISample, mockIAlert
}

func ParseLogs(r io.Reader) []any {
	scanner := bufio.NewScanner(r)
	var logs []any

	for scanner.Scan() {
		line := scanner.Text()
		var j any
		if err := json.Unmarshal([]byte(line), &j); err == nil {
			logs = append(logs, j)
		}
	}
	return logs
}
