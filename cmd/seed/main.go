package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type seedOptions struct {
	envName          string
	domainCount      int
	clientsPerDomain int
	voteCount        int
	dropCollections  bool
	randomSeed       int64
}

type collections struct {
	surveys   string
	questions string
	versions  string
	votes     string
	domains   string
	clients   string
}

type surveyDocument struct {
	ID            primitive.ObjectID   `bson:"_id"`
	Title         string               `bson:"title"`
	QuestionOrder []primitive.ObjectID `bson:"questionOrder"`
	CreatedAt     time.Time            `bson:"creationDate"`
	UpdatedAt     time.Time            `bson:"lastUpdate"`
}

type questionDocument struct {
	ID      primitive.ObjectID `bson:"_id"`
	Survey  primitive.ObjectID `bson:"survey"`
	Type    string             `bson:"type"`
	Value   string             `bson:"value"`
	Choices []optionDocument   `bson:"choices,omitempty"`
	Items   []optionDocument   `bson:"items,omitempty"`
	Min     float64            `bson:"min,omitempty"`
	Max     float64            `bson:"max,omitempty"`
}

type optionDocument struct {
	ID    primitive.ObjectID `bson:"_id"`
	Label string             `bson:"label"`
}

type versionDocument struct {
	ID            primitive.ObjectID `bson:"_id"`
	Survey        primitive.ObjectID `bson:"survey"`
	VersionNumber int                `bson:"versionNumber"`
	CreatedAt     time.Time          `bson:"creationDate"`
}

type domainDocument struct {
	ID           primitive.ObjectID  `bson:"_id"`
	Name         string              `bson:"name"`
	ActiveSurvey *primitive.ObjectID `bson:"activeSurvey"`
}

type clientDocument struct {
	ID           primitive.ObjectID `bson:"_id"`
	Name         string             `bson:"name"`
	Domain       primitive.ObjectID `bson:"domain"`
	CreationDate time.Time          `bson:"creationDate"`
	LastUpdate   time.Time          `bson:"lastUpdate"`
}

type answerDocument struct {
	Question     primitive.ObjectID `bson:"question"`
	Type         string             `bson:"type"`
	Liked        *bool              `bson:"liked"`
	Choice       *string            `bson:"choice"`
	Rating       *float64           `bson:"rating"`
	Normalized   *float64           `bson:"normalized"`
	RankedItems  []string           `bson:"rankedItems"`
	FavoriteItem *string            `bson:"favoriteItem"`
	CreationDate time.Time          `bson:"creationDate"`
}

type voteDocument struct {
	ID           primitive.ObjectID `bson:"_id"`
	Answers      []answerDocument   `bson:"answers"`
	Version      primitive.ObjectID `bson:"version"`
	Survey       primitive.ObjectID `bson:"survey"`
	Domain       primitive.ObjectID `bson:"domain"`
	Client       primitive.ObjectID `bson:"client"`
	CreationDate time.Time          `bson:"creationDate"`
}

func main() {
	opts := parseFlags()

	if err := loadEnvFiles(opts.envName); err != nil {
		log.Printf("環境ファイルをスキップします: %v", err)
	}

	cfg := collections{
		surveys:   envOrDefault("SURVEY_COLLECTION", "survey"),
		questions: envOrDefault("QUESTION_COLLECTION", "question"),
		versions:  envOrDefault("VERSION_COLLECTION", "version"),
		votes:     envOrDefault("VOTE_COLLECTION", "votes"),
		domains:   envOrDefault("DOMAIN_COLLECTION", "domain"),
		clients:   envOrDefault("CLIENT_COLLECTION", "client"),
	}

	mongoURI := envOrDefault("MONGO_URI", "mongodb://localhost:27017")
	dbName := envOrDefault("MONGO_DB", "survey-terminal")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("MongoDB 接続に失敗しました: %v", err)
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	db := client.Database(dbName)

	if opts.dropCollections {
		if err := dropCollections(ctx, db, cfg); err != nil {
			log.Fatalf("コレクション削除に失敗しました: %v", err)
		}
		log.Printf("既存コレクションを削除しました")
	}

	rng := rand.New(rand.NewSource(opts.randomSeed))

	survey, questions := generateSurvey()
	if _, err := db.Collection(cfg.surveys).InsertOne(ctx, survey); err != nil {
		log.Fatalf("アンケートの挿入に失敗しました: %v", err)
	}
	if err := insertMany(ctx, db.Collection(cfg.questions), toAnySlice(questions)); err != nil {
		log.Fatalf("質問の挿入に失敗しました: %v", err)
	}

	version := versionDocument{
		ID:            primitive.NewObjectID(),
		Survey:        survey.ID,
		VersionNumber: 1,
		CreatedAt:     time.Now(),
	}
	if _, err := db.Collection(cfg.versions).InsertOne(ctx, version); err != nil {
		log.Fatalf("バージョンの挿入に失敗しました: %v", err)
	}

	domainDocs := generateDomains(opts.domainCount, survey.ID)
	if err := insertMany(ctx, db.Collection(cfg.domains), toAnySlice(domainDocs)); err != nil {
		log.Fatalf("ドメインの挿入に失敗しました: %v", err)
	}

	clientDocs := generateClients(domainDocs, opts.clientsPerDomain)
	if err := insertMany(ctx, db.Collection(cfg.clients), toAnySlice(clientDocs)); err != nil {
		log.Fatalf("端末の挿入に失敗しました: %v", err)
	}

	voteDocs := generateVotes(rng, survey, questions, version.ID, clientDocs, opts.voteCount)
	if len(voteDocs) > 0 {
		if err := insertMany(ctx, db.Collection(cfg.votes), toAnySlice(voteDocs)); err != nil {
			log.Fatalf("投票データの挿入に失敗しました: %v", err)
		}
	}

	log.Printf("Seed 完了: questions=%d domains=%d clients=%d votes=%d",
		len(questions), len(domainDocs), len(clientDocs), len(voteDocs))
	log.Printf("Mongo: %s / %s (env=%s)", mongoURI, dbName, opts.envName)
}

func parseFlags() seedOptions {
	var opts seedOptions
	flag.StringVar(&opts.envName, "env", "local", "env 内の env ファイル名 (例: local, staging)")
	flag.IntVar(&opts.domainCount, "domains", 2, "生成するドメイン数")
	flag.IntVar(&opts.clientsPerDomain, "clients", 3, "ドメインごとの端末数")
	flag.IntVar(&opts.voteCount, "votes", 20, "生成する確定済み投票数")
	flag.BoolVar(&opts.dropCollections, "drop", true, "既存コレクションを削除してから投入する")
	defaultSeed := time.Now().UnixNano()
	flag.Int64Var(&opts.randomSeed, "seed", defaultSeed, "乱数シード（再現用）")
	flag.Parse()

	if opts.domainCount <= 0 {
		log.Fatal("domains は 1 以上を指定してください")
	}
	if opts.clientsPerDomain <= 0 {
		log.Fatal("clients は 1 以上を指定してください")
	}
	if opts.voteCount < 0 {
		opts.voteCount = 0
	}
	return opts
}

// generateSurvey は全質問タイプを 1 問ずつ含むアンケートを組み立てる。
func generateSurvey() (surveyDocument, []questionDocument) {
	surveyID := primitive.NewObjectID()
	now := time.Now()

	questions := []questionDocument{
		{
			ID:     primitive.NewObjectID(),
			Survey: surveyID,
			Type:   "LIKE",
			Value:  "今日の展示は楽しめましたか？",
		},
		{
			ID:     primitive.NewObjectID(),
			Survey: surveyID,
			Type:   "LIKEDISLIKE",
			Value:  "館内の案内表示は分かりやすかったですか？",
		},
		{
			ID:     primitive.NewObjectID(),
			Survey: surveyID,
			Type:   "CHOICE",
			Value:  "どの時間帯に来館されましたか？",
			Choices: []optionDocument{
				{ID: primitive.NewObjectID(), Label: "午前"},
				{ID: primitive.NewObjectID(), Label: "午後"},
				{ID: primitive.NewObjectID(), Label: "夕方以降"},
			},
		},
		{
			ID:     primitive.NewObjectID(),
			Survey: surveyID,
			Type:   "REGULATOR",
			Value:  "全体の満足度を教えてください",
			Min:    0,
			Max:    10,
		},
		{
			ID:     primitive.NewObjectID(),
			Survey: surveyID,
			Type:   "RANKING",
			Value:  "良かった順に並べてください",
			Items: []optionDocument{
				{ID: primitive.NewObjectID(), Label: "展示内容"},
				{ID: primitive.NewObjectID(), Label: "スタッフ対応"},
				{ID: primitive.NewObjectID(), Label: "施設の快適さ"},
			},
		},
		{
			ID:     primitive.NewObjectID(),
			Survey: surveyID,
			Type:   "FAVORITE",
			Value:  "最も印象に残ったエリアはどこですか？",
			Items: []optionDocument{
				{ID: primitive.NewObjectID(), Label: "常設展"},
				{ID: primitive.NewObjectID(), Label: "企画展"},
				{ID: primitive.NewObjectID(), Label: "ミュージアムショップ"},
			},
		},
	}

	order := make([]primitive.ObjectID, 0, len(questions))
	for _, q := range questions {
		order = append(order, q.ID)
	}

	survey := surveyDocument{
		ID:            surveyID,
		Title:         "来館者満足度アンケート",
		QuestionOrder: order,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return survey, questions
}

func generateDomains(count int, activeSurvey primitive.ObjectID) []domainDocument {
	names := []string{"本館エントランス", "別館ロビー", "屋外広場", "カフェテリア", "企画展示室"}
	docs := make([]domainDocument, 0, count)
	for i := 0; i < count; i++ {
		name := fmt.Sprintf("設置場所 %d", i+1)
		if i < len(names) {
			name = names[i]
		}
		surveyRef := activeSurvey
		docs = append(docs, domainDocument{
			ID:           primitive.NewObjectID(),
			Name:         name,
			ActiveSurvey: &surveyRef,
		})
	}
	return docs
}

func generateClients(domains []domainDocument, perDomain int) []clientDocument {
	now := time.Now()
	docs := make([]clientDocument, 0, len(domains)*perDomain)
	for _, d := range domains {
		for i := 0; i < perDomain; i++ {
			docs = append(docs, clientDocument{
				ID:           primitive.NewObjectID(),
				Name:         fmt.Sprintf("%s 端末 %d", d.Name, i+1),
				Domain:       d.ID,
				CreationDate: now,
				LastUpdate:   now,
			})
		}
	}
	return docs
}

// generateVotes は questionOrder 順の回答を持つ確定済み投票を生成する。
// 一部の質問はランダムにスキップ（null 回答）される。
func generateVotes(rng *rand.Rand, survey surveyDocument, questions []questionDocument, versionID primitive.ObjectID, clients []clientDocument, count int) []voteDocument {
	if count == 0 || len(clients) == 0 {
		return nil
	}

	byID := make(map[primitive.ObjectID]questionDocument, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	docs := make([]voteDocument, 0, count)
	for i := 0; i < count; i++ {
		client := clients[rng.Intn(len(clients))]
		createdAt := time.Now().Add(-time.Duration(rng.Intn(72)) * time.Hour)

		answers := make([]answerDocument, 0, len(survey.QuestionOrder))
		for _, qid := range survey.QuestionOrder {
			q := byID[qid]
			answers = append(answers, generateAnswer(rng, q, createdAt))
		}

		docs = append(docs, voteDocument{
			ID:           primitive.NewObjectID(),
			Answers:      answers,
			Version:      versionID,
			Survey:       survey.ID,
			Domain:       client.Domain,
			Client:       client.ID,
			CreationDate: createdAt,
		})
	}
	return docs
}

func generateAnswer(rng *rand.Rand, q questionDocument, createdAt time.Time) answerDocument {
	answer := answerDocument{
		Question:     q.ID,
		Type:         q.Type,
		CreationDate: createdAt,
	}

	// 1 割程度はスキップ回答のまま残す。
	if rng.Intn(10) == 0 {
		return answer
	}

	switch q.Type {
	case "LIKE", "LIKEDISLIKE":
		liked := rng.Intn(2) == 0
		answer.Liked = &liked
	case "CHOICE":
		choice := q.Choices[rng.Intn(len(q.Choices))].ID.Hex()
		answer.Choice = &choice
	case "REGULATOR":
		rating := q.Min + rng.Float64()*(q.Max-q.Min)
		normalized := (rating - q.Min) / (q.Max - q.Min)
		answer.Rating = &rating
		answer.Normalized = &normalized
	case "RANKING":
		ranked := make([]string, 0, len(q.Items))
		for _, idx := range rng.Perm(len(q.Items)) {
			ranked = append(ranked, q.Items[idx].ID.Hex())
		}
		answer.RankedItems = ranked
	case "FAVORITE":
		favorite := q.Items[rng.Intn(len(q.Items))].ID.Hex()
		answer.FavoriteItem = &favorite
	}
	return answer
}

func dropCollections(ctx context.Context, db *mongo.Database, cfg collections) error {
	for _, name := range []string{cfg.surveys, cfg.questions, cfg.versions, cfg.votes, cfg.domains, cfg.clients} {
		if err := db.Collection(name).Drop(ctx); err != nil {
			return fmt.Errorf("%s の削除に失敗しました: %w", name, err)
		}
	}
	return nil
}

func insertMany(ctx context.Context, col *mongo.Collection, docs []any) error {
	if len(docs) == 0 {
		return nil
	}
	_, err := col.InsertMany(ctx, docs)
	return err
}

func toAnySlice[T any](docs []T) []any {
	out := make([]any, 0, len(docs))
	for _, d := range docs {
		out = append(out, d)
	}
	return out
}

func loadEnvFiles(envName string) error {
	base := filepath.Clean("env")
	files := []string{
		filepath.Join(base, "shared.env"),
		filepath.Join(base, fmt.Sprintf("%s.env", envName)),
	}
	for _, file := range files {
		if err := loadEnvFile(file); err != nil {
			return err
		}
	}
	return nil
}

func loadEnvFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%s の読み込みに失敗しました: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		value = strings.Trim(value, `"'`)
		if err := os.Setenv(key, value); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
