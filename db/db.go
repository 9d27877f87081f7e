package db

import (
	"fmt"
	"strconv"

	"github.com/jsphweid/engrave/constants"
	"github.com/jsphweid/engrave/model"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
)

// MaxBatch is the most filenames one lookup may ask for.
const MaxBatch = 10

var ErrTooManyFilenames = fmt.Errorf("not supposed to pass in more than %d filenames", MaxBatch)

// Store looks up score metadata in DynamoDB. A nil *Store is a valid store
// that knows nothing.
type Store struct {
	client dynamodbiface.DynamoDBAPI
	table  string
}

func New(client dynamodbiface.DynamoDBAPI, table string) *Store {
	return &Store{client: client, table: table}
}

// NewFromEnv connects to the configured endpoint. It returns a nil store
// when no endpoint is configured.
func NewFromEnv() (*Store, error) {
	endpoint := constants.GetMetadataEndpoint()
	if endpoint == "" {
		return nil, nil
	}
	sess, err := session.NewSession(&aws.Config{
		Region:   aws.String(constants.GetMetadataRegion()),
		Endpoint: aws.String(endpoint),
	})
	if err != nil {
		return nil, fmt.Errorf("could not create a new DynamoDB session: %w", err)
	}
	return New(dynamodb.New(sess), constants.GetMetadataTable()), nil
}

func stringAttr(item map[string]*dynamodb.AttributeValue, name string) string {
	if v, ok := item[name]; ok && v.S != nil {
		return *v.S
	}
	return ""
}

// GetScoreMetadatas returns the metadata found for filenames, keyed by
// filename. Filenames without metadata are absent from the result.
func (s *Store) GetScoreMetadatas(filenames []string) (map[string]model.ScoreMetadata, error) {
	if len(filenames) > MaxBatch {
		return nil, ErrTooManyFilenames
	}

	res := make(map[string]model.ScoreMetadata)
	if s == nil || len(filenames) == 0 {
		return res, nil
	}

	var keys []map[string]*dynamodb.AttributeValue
	for _, filename := range filenames {
		key := make(map[string]*dynamodb.AttributeValue)
		key["PK"] = &dynamodb.AttributeValue{
			S: aws.String(filename),
		}
		keys = append(keys, key)
	}

	input := &dynamodb.BatchGetItemInput{
		RequestItems: map[string]*dynamodb.KeysAndAttributes{
			s.table: {Keys: keys},
		},
	}
	dbres, err := s.client.BatchGetItem(input)
	if err != nil {
		return nil, fmt.Errorf("error from DynamoDB: %w", err)
	}

	for _, v := range dbres.Responses[s.table] {
		pk := stringAttr(v, "PK")
		if pk == "" {
			continue
		}
		var m model.ScoreMetadata
		if v["Year"] != nil && v["Year"].N != nil {
			year, err := strconv.ParseUint(*v["Year"].N, 10, 32)
			if err == nil {
				m.Year = uint(year)
			}
		}
		m.Title = stringAttr(v, "Title")
		m.Composer = stringAttr(v, "Composer")
		m.Release = stringAttr(v, "Release")
		res[pk] = m
	}
	return res, nil
}

// Lookup returns the metadata of a single score file.
func (s *Store) Lookup(filename string) (model.ScoreMetadata, bool, error) {
	res, err := s.GetScoreMetadatas([]string{filename})
	if err != nil {
		return model.ScoreMetadata{}, false, err
	}
	m, ok := res[filename]
	return m, ok, nil
}
