package githubapi_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/dnaeon/go-vcr.v2/recorder"

	"github.com/temirov/releasecut/internal/githubapi"
	"github.com/temirov/releasecut/internal/manifest"
	"github.com/temirov/releasecut/internal/releasedate"
	"github.com/temirov/releasecut/internal/releases"
	"github.com/temirov/releasecut/internal/releases/remoteapi"
)

const createRefTwiceCassetteConstant = "testdata/cassettes/create_ref_twice"

func TestBranchCreationIsNotIdempotentAgainstRecordedAPI(testInstance *testing.T) {
	cassetteRecorder, recorderError := recorder.NewAsMode(createRefTwiceCassetteConstant, recorder.ModeReplaying, nil)
	require.NoError(testInstance, recorderError)
	defer func() {
		require.NoError(testInstance, cassetteRecorder.Stop())
	}()

	branchNamer, namerError := releases.NewBranchNamer(releases.DefaultRemoteBranchTemplate)
	require.NoError(testInstance, namerError)
	strategy, strategyError := remoteapi.NewBranchCreationStrategy(githubapi.NewPlatformFactory(githubapi.Options{Transport: cassetteRecorder}), branchNamer)
	require.NoError(testInstance, strategyError)

	releaseDate, dateError := releasedate.Parse(testReleaseDateConstant)
	require.NoError(testInstance, dateError)
	request := releases.CutRequest{
		Entry:       manifest.RepoEntry{Repository: testRepositoryConstant},
		OwnerName:   testOwnerConstant,
		ReleaseDate: releaseDate,
		Token:       testTokenConstant,
	}

	firstResult, firstError := strategy.CutRelease(context.Background(), request)
	require.NoError(testInstance, firstError)
	require.Equal(testInstance, releases.CutOutcomeCreated, firstResult.Outcome)
	require.Equal(testInstance, "main", firstResult.BaseBranch)
	require.Equal(testInstance, "release/2024-11-05", firstResult.ReleaseBranch)

	_, secondError := strategy.CutRelease(context.Background(), request)
	var responseError remoteapi.ResponseError
	require.ErrorAs(testInstance, secondError, &responseError)
	require.Equal(testInstance, http.StatusUnprocessableEntity, responseError.StatusCode)
	require.Contains(testInstance, secondError.Error(), "Reference already exists")
}
