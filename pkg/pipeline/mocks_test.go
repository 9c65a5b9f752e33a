// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/walteh/smartreplace/pkg/config"
	"github.com/walteh/smartreplace/pkg/notify"
)

// MockRuleSource is a testify mock of RuleSource
type MockRuleSource struct {
	mock.Mock
}

type MockRuleSource_Expecter struct {
	mock *mock.Mock
}

func (_m *MockRuleSource) EXPECT() *MockRuleSource_Expecter {
	return &MockRuleSource_Expecter{mock: &_m.Mock}
}

func (_m *MockRuleSource) Read(ctx context.Context, path string) (string, error) {
	ret := _m.Called(ctx, path)
	return ret.String(0), ret.Error(1)
}

type MockRuleSource_Read_Call struct {
	*mock.Call
}

func (_e *MockRuleSource_Expecter) Read(ctx interface{}, path interface{}) *MockRuleSource_Read_Call {
	return &MockRuleSource_Read_Call{Call: _e.mock.On("Read", ctx, path)}
}

func (_c *MockRuleSource_Read_Call) Return(content string, err error) *MockRuleSource_Read_Call {
	_c.Call.Return(content, err)
	return _c
}

func NewMockRuleSource(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockRuleSource {
	m := &MockRuleSource{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockNotifier is a testify mock of Notifier
type MockNotifier struct {
	mock.Mock
}

type MockNotifier_Expecter struct {
	mock *mock.Mock
}

func (_m *MockNotifier) EXPECT() *MockNotifier_Expecter {
	return &MockNotifier_Expecter{mock: &_m.Mock}
}

func (_m *MockNotifier) Notify(ctx context.Context, n notify.Notice) {
	_m.Called(ctx, n)
}

type MockNotifier_Notify_Call struct {
	*mock.Call
}

func (_e *MockNotifier_Expecter) Notify(ctx interface{}, n interface{}) *MockNotifier_Notify_Call {
	return &MockNotifier_Notify_Call{Call: _e.mock.On("Notify", ctx, n)}
}

func (_c *MockNotifier_Notify_Call) Return() *MockNotifier_Notify_Call {
	_c.Call.Return()
	return _c
}

func NewMockNotifier(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockNotifier {
	m := &MockNotifier{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockSettingsLoader is a testify mock of SettingsLoader
type MockSettingsLoader struct {
	mock.Mock
}

func (_m *MockSettingsLoader) Load(ctx context.Context) (config.Settings, error) {
	ret := _m.Called(ctx)
	return ret.Get(0).(config.Settings), ret.Error(1)
}
