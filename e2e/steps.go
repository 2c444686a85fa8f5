package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cucumber/godog"
	"github.com/tidwall/gjson"

	identityModels "tosgate/internal/identity/models"
	id "tosgate/pkg/domain"
)

// RegisterSteps registers all step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Background steps
	ctx.Step(`^the terms gateway is running$`, tc.gatewayIsRunning)

	// Caller steps
	ctx.Step(`^I am signed in as "([^"]*)"$`, tc.signedInAs)
	ctx.Step(`^I am not signed in$`, tc.notSignedIn)
	ctx.Step(`^I present the token "([^"]*)"$`, tc.presentToken)
	ctx.Step(`^user "([^"]*)" has the claim "([^"]*)" set to "([^"]*)"$`, tc.userHasClaim)

	// Request steps
	ctx.Step(`^I call "([^"]*)" with:$`, tc.callWith)
	ctx.Step(`^I call "([^"]*)" with no data$`, tc.callWithNoData)
	ctx.Step(`^I publish terms "([^"]*)" for role "([^"]*)"$`, tc.publishTerms)
	ctx.Step(`^I accept terms "([^"]*)"$`, tc.acceptTerms)
	ctx.Step(`^I GET "([^"]*)"$`, tc.GET)
	ctx.Step(`^a moment passes$`, func(context.Context) error { time.Sleep(5 * time.Millisecond); return nil })

	// Assertion steps
	ctx.Step(`^the response status should be (\d+)$`, tc.responseStatusShouldBe)
	ctx.Step(`^the error should be "([^"]*)" with description "([^"]*)"$`, tc.errorShouldBe)
	ctx.Step(`^the result should be null$`, tc.resultShouldBeNull)
	ctx.Step(`^the result field "([^"]*)" should equal "([^"]*)"$`, tc.resultFieldShouldEqual)
	ctx.Step(`^the result field "([^"]*)" should be present$`, tc.resultFieldShouldBePresent)
	ctx.Step(`^the result field "([^"]*)" should be absent$`, tc.resultFieldShouldBeAbsent)
	ctx.Step(`^the result should have (\d+) entr(?:y|ies)$`, tc.resultShouldHaveEntries)
	ctx.Step(`^I remember the result field "([^"]*)" as "([^"]*)"$`, tc.rememberResultField)
	ctx.Step(`^the result field "([^"]*)" should differ from "([^"]*)"$`, tc.resultFieldShouldDiffer)
	ctx.Step(`^user "([^"]*)" should still have the claim "([^"]*)" set to "([^"]*)"$`, tc.userShouldHaveClaim)
}

func (tc *TestContext) gatewayIsRunning(ctx context.Context) error {
	return tc.GET("/health/live")
}

func (tc *TestContext) signedInAs(ctx context.Context, userID string) error {
	token, err := tc.mintToken(userID)
	if err != nil {
		return err
	}
	tc.AccessToken = token
	return nil
}

func (tc *TestContext) notSignedIn(ctx context.Context) error {
	tc.AccessToken = ""
	return nil
}

func (tc *TestContext) presentToken(ctx context.Context, token string) error {
	tc.AccessToken = token
	return nil
}

func (tc *TestContext) userHasClaim(ctx context.Context, userID, key, value string) error {
	if !tc.inProcess() {
		return godog.ErrPending
	}
	return tc.claims.SetClaims(ctx, id.UserID(userID), identityModels.Claims{key: value})
}

func (tc *TestContext) callWith(ctx context.Context, operation string, doc *godog.DocString) error {
	if !json.Valid([]byte(doc.Content)) {
		return fmt.Errorf("step payload is not valid JSON: %s", doc.Content)
	}
	return tc.Call(operation, json.RawMessage(doc.Content))
}

func (tc *TestContext) callWithNoData(ctx context.Context, operation string) error {
	return tc.Call(operation, nil)
}

func (tc *TestContext) publishTerms(ctx context.Context, tosID, role string) error {
	data, err := json.Marshal(map[string]any{
		"tosId":      tosID,
		"link":       "https://example.com/terms/" + tosID,
		"noticeType": []map[string]string{{"role": role}},
	})
	if err != nil {
		return err
	}
	if err := tc.Call("createTerms", data); err != nil {
		return err
	}
	return tc.responseStatusShouldBe(ctx, 200)
}

func (tc *TestContext) acceptTerms(ctx context.Context, tosID string) error {
	data, err := json.Marshal(map[string]string{"tosId": tosID})
	if err != nil {
		return err
	}
	return tc.Call("acceptTerms", data)
}

func (tc *TestContext) responseStatusShouldBe(ctx context.Context, expectedStatus int) error {
	if tc.GetLastResponseStatus() != expectedStatus {
		return fmt.Errorf("expected status %d but got %d\nResponse: %s", expectedStatus, tc.GetLastResponseStatus(), tc.LastResponseBody)
	}
	return nil
}

func (tc *TestContext) errorShouldBe(ctx context.Context, code, description string) error {
	body := gjson.ParseBytes(tc.LastResponseBody)
	if got := body.Get("error").String(); got != code {
		return fmt.Errorf("expected error %q but got %q", code, got)
	}
	if got := body.Get("error_description").String(); got != description {
		return fmt.Errorf("expected error_description %q but got %q", description, got)
	}
	return nil
}

func (tc *TestContext) result() gjson.Result {
	return gjson.GetBytes(tc.LastResponseBody, "result")
}

// resultPath reads a path under result. Path segments that are tosIds may
// contain dots, so callers escape them in feature files with a backslash.
func (tc *TestContext) resultPath(path string) gjson.Result {
	return tc.result().Get(path)
}

func (tc *TestContext) resultShouldBeNull(ctx context.Context) error {
	res := tc.result()
	if !res.Exists() || res.Type != gjson.Null {
		return fmt.Errorf("expected null result, got %s", tc.LastResponseBody)
	}
	return nil
}

func (tc *TestContext) resultFieldShouldEqual(ctx context.Context, path, expected string) error {
	got := tc.resultPath(path)
	if !got.Exists() {
		return fmt.Errorf("result field %s not found\nResponse: %s", path, tc.LastResponseBody)
	}
	if got.String() != expected {
		return fmt.Errorf("result field %s: expected %s but got %s", path, expected, got.String())
	}
	return nil
}

func (tc *TestContext) resultFieldShouldBePresent(ctx context.Context, path string) error {
	if !tc.resultPath(path).Exists() {
		return fmt.Errorf("result field %s not found\nResponse: %s", path, tc.LastResponseBody)
	}
	return nil
}

func (tc *TestContext) resultFieldShouldBeAbsent(ctx context.Context, path string) error {
	if tc.resultPath(path).Exists() {
		return fmt.Errorf("result field %s should be absent\nResponse: %s", path, tc.LastResponseBody)
	}
	return nil
}

func (tc *TestContext) resultShouldHaveEntries(ctx context.Context, n int) error {
	res := tc.result()
	var got int
	switch {
	case res.IsArray():
		got = len(res.Array())
	case res.IsObject():
		got = len(res.Map())
	default:
		return fmt.Errorf("result is neither an array nor an object: %s", tc.LastResponseBody)
	}
	if got != n {
		return fmt.Errorf("expected %d result entries but got %d\nResponse: %s", n, got, tc.LastResponseBody)
	}
	return nil
}

func (tc *TestContext) rememberResultField(ctx context.Context, path, name string) error {
	got := tc.resultPath(path)
	if !got.Exists() {
		return fmt.Errorf("result field %s not found", path)
	}
	tc.remembered[name] = got.String()
	return nil
}

func (tc *TestContext) resultFieldShouldDiffer(ctx context.Context, path, name string) error {
	prev, ok := tc.remembered[name]
	if !ok {
		return fmt.Errorf("nothing remembered as %q", name)
	}
	if got := tc.resultPath(path).String(); got == prev {
		return fmt.Errorf("result field %s still equals %s", path, prev)
	}
	return nil
}

func (tc *TestContext) userShouldHaveClaim(ctx context.Context, userID, key, value string) error {
	if !tc.inProcess() {
		return godog.ErrPending
	}
	rec, err := tc.claims.Get(ctx, id.UserID(userID))
	if err != nil {
		return err
	}
	got, ok := rec.Claims[key]
	if !ok {
		return fmt.Errorf("claim %s missing; claims: %v", key, rec.Claims)
	}
	if fmt.Sprint(got) != value {
		return fmt.Errorf("claim %s: expected %s but got %v", key, value, got)
	}
	if _, ok := rec.Claims[claimsNamespace]; !ok {
		return fmt.Errorf("acknowledgements missing from claims: %v", rec.Claims)
	}
	return nil
}
