package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainagent "tripquote/internal/domain/agent"
)

type AgentRepository struct {
	col *mongo.Collection
}

func NewAgentRepository(db *mongo.Database) *AgentRepository {
	return &AgentRepository{col: db.Collection("agents")}
}

func (r *AgentRepository) ByID(ctx context.Context, id domainagent.AgentID) (*domainagent.Agent, error) {
	var doc agentDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainagent.ErrAgentNotFound
		}
		return nil, err
	}
	return doc.toAgent(), nil
}

func (r *AgentRepository) Save(ctx context.Context, a *domainagent.Agent) error {
	doc := agentDocument{
		ID:          string(a.ID),
		CompanyName: a.CompanyName,
		Contact:     a.Contact,
		Tier:        string(a.Tier),
		TotalPax:    a.TotalPax,
	}
	opts := options.Replace().SetUpsert(true)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}

type agentDocument struct {
	ID          string `bson:"_id"`
	CompanyName string `bson:"company_name"`
	Contact     string `bson:"contact,omitempty"`
	Tier        string `bson:"tier"`
	TotalPax    int    `bson:"total_pax"`
}

func (d agentDocument) toAgent() *domainagent.Agent {
	return &domainagent.Agent{
		ID:          domainagent.AgentID(d.ID),
		CompanyName: d.CompanyName,
		Contact:     d.Contact,
		Tier:        domainagent.Tier(d.Tier),
		TotalPax:    d.TotalPax,
	}
}
