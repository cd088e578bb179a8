package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "croplife/internal/errors"
	"croplife/internal/model"
)

const (
	productsCollection = "products"
	adminsCollection   = "admins"
	// adminDocumentID keys the singleton admin document.
	adminDocumentID = "admin"
)

// productDocument is the stored form of a product. Ids are kept as their
// canonical string so documents stay readable from the mongo shell.
type productDocument struct {
	ID          string    `bson:"_id"`
	Title       string    `bson:"title"`
	Description string    `bson:"description"`
	Price       string    `bson:"price"`
	Category    string    `bson:"category"`
	Image       string    `bson:"image"`
	Featured    bool      `bson:"featured"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func toProductDocument(p *model.Product) productDocument {
	return productDocument{
		ID:          p.ID.String(),
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		Image:       p.Image,
		Featured:    p.Featured,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (d productDocument) toModel() (model.Product, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return model.Product{}, fmt.Errorf("decode product id %q: %w", d.ID, err)
	}
	return model.Product{
		ID:          id,
		Title:       d.Title,
		Description: d.Description,
		Price:       d.Price,
		Category:    d.Category,
		Image:       d.Image,
		Featured:    d.Featured,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

type mongoProductRepository struct {
	collection *mongo.Collection
}

// mongoNow returns the current time at BSON datetime precision, so values
// handed back from a write match what a later read decodes.
func mongoNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// NewMongoProductRepository creates a MongoDB-backed product repository.
func NewMongoProductRepository(db *mongo.Database) ProductRepository {
	return &mongoProductRepository{collection: db.Collection(productsCollection)}
}

func (r *mongoProductRepository) List(ctx context.Context) ([]model.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	products := make([]model.Product, 0, len(docs))
	for _, d := range docs {
		p, err := d.toModel()
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

func (r *mongoProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var doc productDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, err
	}
	p, err := doc.toModel()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *mongoProductRepository) Create(ctx context.Context, product *model.Product) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	now := mongoNow()
	product.CreatedAt = now
	product.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, toProductDocument(product))
	return err
}

func (r *mongoProductRepository) Update(ctx context.Context, id uuid.UUID, in model.ProductInput) (*model.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"title":       in.Title,
		"description": in.Description,
		"price":       in.Price,
		"category":    in.Category,
		"image":       in.Image,
		"featured":    in.Featured,
		"updated_at":  mongoNow(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc productDocument
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id.String()}, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, err
	}
	p, err := doc.toModel()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *mongoProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return apperrors.ErrProductNotFound
	}
	return nil
}

type adminDocument struct {
	ID           string    `bson:"_id"`
	Username     string    `bson:"username"`
	PasswordHash string    `bson:"password_hash"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

type mongoAdminRepository struct {
	collection *mongo.Collection
}

// NewMongoAdminRepository creates a MongoDB-backed admin repository.
func NewMongoAdminRepository(db *mongo.Database) AdminRepository {
	return &mongoAdminRepository{collection: db.Collection(adminsCollection)}
}

func (r *mongoAdminRepository) Get(ctx context.Context) (*model.AdminUser, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var doc adminDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": adminDocumentID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrAdminNotFound
		}
		return nil, err
	}
	return &model.AdminUser{
		ID:           model.AdminSingletonID,
		Username:     doc.Username,
		PasswordHash: doc.PasswordHash,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}, nil
}

func (r *mongoAdminRepository) Create(ctx context.Context, admin *model.AdminUser) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := mongoNow()
	admin.ID = model.AdminSingletonID
	admin.CreatedAt = now
	admin.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, adminDocument{
		ID:           adminDocumentID,
		Username:     admin.Username,
		PasswordHash: admin.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if mongo.IsDuplicateKeyError(err) {
		return apperrors.ErrAdminExists
	}
	return err
}

func (r *mongoAdminRepository) Update(ctx context.Context, admin *model.AdminUser) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	admin.UpdatedAt = mongoNow()
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": adminDocumentID}, bson.M{"$set": bson.M{
		"username":      admin.Username,
		"password_hash": admin.PasswordHash,
		"updated_at":    admin.UpdatedAt,
	}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrAdminNotFound
	}
	return nil
}
