package db

import (
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/jsphweid/engrave/model"
	"github.com/stretchr/testify/assert"
)

type fakeClient struct {
	dynamodbiface.DynamoDBAPI
	items []map[string]*dynamodb.AttributeValue
	err   error
	input *dynamodb.BatchGetItemInput
}

func (f *fakeClient) BatchGetItem(input *dynamodb.BatchGetItemInput) (*dynamodb.BatchGetItemOutput, error) {
	f.input = input
	if f.err != nil {
		return nil, f.err
	}
	return &dynamodb.BatchGetItemOutput{
		Responses: map[string][]map[string]*dynamodb.AttributeValue{"scores": f.items},
	}, nil
}

func TestGetScoreMetadatas(t *testing.T) {
	client := &fakeClient{items: []map[string]*dynamodb.AttributeValue{{
		"PK":       {S: aws.String("riff.yml")},
		"Title":    {S: aws.String("Riff")},
		"Composer": {S: aws.String("Anonymous")},
		"Year":     {N: aws.String("1720")},
	}}}
	store := New(client, "scores")

	res, err := store.GetScoreMetadatas([]string{"riff.yml", "other.mid"})

	assert := assert.New(t)
	assert.Nil(err)
	assert.Equal(map[string]model.ScoreMetadata{
		"riff.yml": {Title: "Riff", Composer: "Anonymous", Year: 1720},
	}, res)
	assert.Len(client.input.RequestItems["scores"].Keys, 2)
}

func TestGetScoreMetadatasErrors(t *testing.T) {
	assert := assert.New(t)

	store := New(&fakeClient{err: errors.New("boom")}, "scores")
	_, _, err := store.Lookup("riff.yml")
	assert.NotNil(err)

	_, err = store.GetScoreMetadatas(make([]string, MaxBatch+1))
	assert.ErrorIs(err, ErrTooManyFilenames)
}

func TestNilStoreKnowsNothing(t *testing.T) {
	var store *Store
	_, ok, err := store.Lookup("riff.yml")

	assert := assert.New(t)
	assert.Nil(err)
	assert.False(ok)
}

func TestNewFromEnvDisabled(t *testing.T) {
	t.Setenv("ENGRAVE_METADATA_ENDPOINT", "")
	store, err := NewFromEnv()

	assert := assert.New(t)
	assert.Nil(err)
	assert.Nil(store)
}
