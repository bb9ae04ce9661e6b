package connection

import (
	"context"
	"fmt"
	"time"

	dbMonitoring "github.com/Jacobbrewer1/warden/pkg/dataaccess/monitoring"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// connectTimeout bounds the initial connection and ping.
const connectTimeout = 10 * time.Second

type MongoDB struct {
	ConnectionString string
	Username         string
	Password         string
	Host             string
	Port             string
	Args             string
}

func (m *MongoDB) GenerateConnectionString() {
	cs := "mongodb+srv://"
	if m.Username != "" && m.Password != "" {
		cs += m.Username + ":" + m.Password + "@"
	} else if m.Username != "" {
		cs += m.Username + "@"
	}

	cs += m.Host

	if m.Port != "" {
		cs += ":" + m.Port
	}

	if m.Args != "" {
		cs += "/?" + m.Args
	}

	m.ConnectionString = cs
}

// Connect connects to MongoDB and pings the server before returning the client.
func (m *MongoDB) Connect(ctx context.Context) (*mongo.Client, error) {
	if m.ConnectionString == "" {
		m.GenerateConnectionString()
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(m.ConnectionString).SetServerAPIOptions(serverAPI)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("error connecting to mongo: %w", err)
	}

	done := dbMonitoring.ObserveMongo("connection", "ping", "-", "-")
	err = client.Ping(ctx, nil)
	done()
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("error pinging mongo: %w", err)
	}

	return client, nil
}
