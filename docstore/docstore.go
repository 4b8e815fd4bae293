// vi: sw=4 ts=4:

/*

	Mnemonic:	docstore
	Abstract:	Out-of-core document-store sidecar exposed to user functions --
				insert/find/findAll/delete/deleteAll against a remote document
				store, every document tagged with agent/host/created (§1 of the
				original spec calls this "a leaf module exposed to user code but
				not part of the dispatch core"). Grounded on
				magiCLib/Database.c's mongoDBExecute family, lifted onto
				go.mongodb.org/mongo-driver rather than hand-rolled BSON.

	Date:		29 July 2026
*/

package docstore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	databaseName   = "magi"
	collectionName = "experiment_data"
)

// Pair is one key-value entry of a document, mirroring keyValueNode_t's
// {key, type, value} shape without the C union -- Go's bson.D already values
// any comparable Go type.
type Pair struct {
	Key   string
	Value interface{}
}

// Store wraps a collection handle plus the agent/host identity every
// document is tagged with on write.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
	agent  string
	host   string
}

// Dial connects to the document store at host:port -- if host equals the
// agent's own hostname, spec §3 requires it be rewritten to loopback before
// reaching this call, which config.ParseArgs already does.
func Dial( host string, port int, agent, hostName string ) ( *Store, error ) {
	uri := fmt.Sprintf( "mongodb://%s:%d/", host, port )

	ctx, cancel := context.WithTimeout( context.Background(), 10*time.Second )
	defer cancel()

	client, err := mongo.Connect( ctx, options.Client().ApplyURI( uri ) )
	if err != nil {
		return nil, err
	}

	return &Store{
		client: client,
		coll:   client.Database( databaseName ).Collection( collectionName ),
		agent:  agent,
		host:   hostName,
	}, nil
}

// tagged builds a bson.D from pairs plus the agent/host stamp every query and
// insert carries (Database.c appends "agent" and "host" to both). It does not
// add "created"; Insert appends that itself.
func ( s *Store ) tagged( pairs []Pair ) bson.D {
	doc := make( bson.D, 0, len( pairs )+3 )
	for _, p := range pairs {
		doc = append( doc, bson.E{ Key: p.Key, Value: p.Value } )
	}
	doc = append( doc,
		bson.E{ Key: "agent", Value: s.agent },
		bson.E{ Key: "host", Value: s.host },
	)
	return doc
}

// Insert writes a new document tagged with agent/host/created.
func ( s *Store ) Insert( ctx context.Context, pairs []Pair ) error {
	doc := s.tagged( pairs )
	doc = append( doc, bson.E{ Key: "created", Value: time.Now().UTC() } )
	_, err := s.coll.InsertOne( ctx, doc )
	return err
}

// Find returns documents matching pairs, scoped to this agent/host.
func ( s *Store ) Find( ctx context.Context, pairs []Pair ) ( []bson.M, error ) {
	cur, err := s.coll.Find( ctx, s.tagged( pairs ) )
	if err != nil {
		return nil, err
	}
	defer cur.Close( ctx )

	var docs []bson.M
	if err := cur.All( ctx, &docs ); err != nil {
		return nil, err
	}
	return docs, nil
}

// FindAll returns every document belonging to this agent/host.
func ( s *Store ) FindAll( ctx context.Context ) ( []bson.M, error ) {
	return s.Find( ctx, nil )
}

// Delete removes documents matching pairs, scoped to this agent/host.
func ( s *Store ) Delete( ctx context.Context, pairs []Pair ) error {
	_, err := s.coll.DeleteMany( ctx, s.tagged( pairs ) )
	return err
}

// DeleteAll removes every document belonging to this agent/host.
func ( s *Store ) DeleteAll( ctx context.Context ) error {
	return s.Delete( ctx, nil )
}

// Close disconnects the underlying client.
func ( s *Store ) Close( ctx context.Context ) error {
	return s.client.Disconnect( ctx )
}
