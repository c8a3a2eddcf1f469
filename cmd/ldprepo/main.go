// Command ldprepo runs the HTTP protocol engine against a selectable set of
// collaborator implementations: in-memory by default, or Postgres/S3/Kafka
// when the corresponding environment variable is set.
package main

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/joeshaw/envdecode"
	"github.com/sirupsen/logrus"

	"github.com/ldpworks/ldprepo/access"
	"github.com/ldpworks/ldprepo/config"
	"github.com/ldpworks/ldprepo/engine"
	"github.com/ldpworks/ldprepo/logger"
	"github.com/ldpworks/ldprepo/memstore"
	"github.com/ldpworks/ldprepo/services"
)

var defaultConfigJSON = `
{
	"baseURL": "http://localhost:3000",
	"cors": {
		"allowedOrigins": ["*"],
		"allowedMethods": ["GET", "HEAD", "OPTIONS", "POST", "PUT", "PATCH", "DELETE"]
	},
	"challenges": [
		{"scheme": "Bearer", "realm": "ldprepo"}
	],
	"cacheMaxAgeSeconds": 60,
	"putCreatesUncontained": false,
	"purgeBinaryOnDelete": false,
	"patchCreatesMissing": false,
	"defaultJSONLDProfile": "http://www.w3.org/ns/json-ld#compacted"
}
`

// defaultACLJSON grants the anonymous agent Read everywhere, sufficient for
// a first run against an empty repository.
var defaultACLJSON = `[
	{"agent": "http://www.w3.org/ns/auth/acl#AuthenticatedAgent", "prefix": "trellis:data/", "modes": ["Read"]}
]`

// env holds the deployment settings that commonly vary between
// installations of the same image, decoded with envdecode per the ambient
// stack's own service-configuration convention.
type env struct {
	Port           string `env:"LDPREPO_PORT,default=3000"`
	ConfigJSON     string `env:"LDPREPO_CONFIG_JSON"`
	ACLJSON        string `env:"LDPREPO_ACL_JSON"`
	PostgresDSN    string `env:"LDPREPO_POSTGRES_DSN"`
	PostgresSchema string `env:"LDPREPO_POSTGRES_SCHEMA,default=public"`
	KafkaBrokers   string `env:"LDPREPO_KAFKA_BROKERS"`
	KafkaTopic     string `env:"LDPREPO_KAFKA_TOPIC,default=ldprepo-events"`
	S3Bucket       string `env:"LDPREPO_S3_BUCKET"`
	S3Region       string `env:"LDPREPO_S3_REGION"`
	Backdoors      string `env:"LDPREPO_BACKDOOR_TOKENS"`
}

func main() {
	logger.InitLogger(logrus.InfoLevel)

	var e env
	if err := envdecode.Decode(&e); err != nil && err != envdecode.ErrNoTargetFieldsAreSet {
		log.Fatalf("cannot decode environment: %v", err)
	}

	configJSON := defaultConfigJSON
	if e.ConfigJSON != "" {
		configJSON = e.ConfigJSON
	}
	cfg := config.Load(configJSON)

	resources := newResourceService(e)
	binaries := newBinaryService(e)
	events := newEventService(e)
	aclStore := newAccessControlService(e)

	eng := engine.Builder{
		Config:    cfg,
		Resources: resources,
		Mementos:  memstore.NewMementoStore(),
		Binaries:  binaries,
		IO:        memstore.NewRDFCodec(),
		Access:    aclStore,
		Events:    events,
		Audit:     memstore.NewAuditor(),
		Authentication: access.AuthenticationBuilder{
			AnonymousAgent: cfg.AnonymousAgent,
			Backdoors:      parseBackdoors(e.Backdoors),
		},
	}.Build()

	addr := ":" + e.Port
	logger.Default().WithField("addr", addr).Info("starting ldprepo")
	if err := http.ListenAndServe(addr, eng.Router()); err != nil {
		log.Fatal(err)
	}
}

func newResourceService(e env) services.ResourceService {
	if e.PostgresDSN == "" {
		return memstore.NewResourceStore()
	}
	store, err := memstore.OpenSQLResourceStore(e.PostgresDSN, e.PostgresSchema)
	if err != nil {
		log.Fatalf("cannot open Postgres resource store: %v", err)
	}
	return store
}

func newBinaryService(e env) services.BinaryService {
	if e.S3Bucket == "" {
		return memstore.NewBinaryStore()
	}
	store, err := memstore.NewS3BinaryStore(context.Background(), memstore.S3BinaryStoreConfig{
		Bucket: e.S3Bucket,
		Region: e.S3Region,
	})
	if err != nil {
		log.Fatalf("cannot open S3 binary store: %v", err)
	}
	return store
}

func newEventService(e env) services.EventService {
	if e.KafkaBrokers == "" {
		return memstore.NewEventSink(256)
	}
	return memstore.NewKafkaEventSink(strings.Split(e.KafkaBrokers, ","), e.KafkaTopic)
}

func newAccessControlService(e env) services.AccessControlService {
	raw := defaultACLJSON
	if e.ACLJSON != "" {
		raw = e.ACLJSON
	}
	store, err := memstore.NewACLStore(raw)
	if err != nil {
		log.Fatalf("cannot load ACL document: %v", err)
	}
	return store
}

func parseBackdoors(raw string) map[string]string {
	if raw == "" {
		return nil
	}
	out := map[string]string{}
	for _, pair := range strings.Split(raw, ",") {
		token, agent, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		out[strings.TrimSpace(token)] = strings.TrimSpace(agent)
	}
	return out
}
