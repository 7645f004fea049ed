// Package generator writes synthetic user records to a store, one Put per
// user id, with no batching and no retries.
package generator

import (
	"context"
	"math/rand"
	"time"

	"github.com/pingcap-incubator/asbatch/config"
	"github.com/pingcap-incubator/asbatch/measurement"
	"github.com/pingcap-incubator/asbatch/metrics"
	"github.com/pingcap-incubator/asbatch/store"
	"github.com/pingcap-incubator/asbatch/user"
	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Generator synthesizes users for ids in [Start, End] and writes them.
type Generator struct {
	st        store.Store
	namespace string
	set       string
	conf      config.GeneratorConfig

	r             *rand.Rand
	limiter       *rate.Limiter
	interestCount *Uniform
}

// New creates a Generator writing to namespace/set of st.
func New(st store.Store, namespace, set string, conf *config.GeneratorConfig) *Generator {
	seed := conf.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g := &Generator{
		st:            st,
		namespace:     namespace,
		set:           set,
		conf:          *conf,
		r:             rand.New(rand.NewSource(seed)),
		interestCount: NewUniform(0, user.MaxInterests),
	}
	if conf.Target > 0 {
		g.limiter = rate.NewLimiter(rate.Limit(conf.Target), 1)
	}
	return g
}

// NewUser synthesizes the user with the given id. Username and password
// derive from id, the rest is random.
func (g *Generator) NewUser(id int64) *user.User {
	u := &user.User{
		Username:    user.Username(id),
		Password:    user.Password(id),
		Gender:      Pick(g.r, user.Genders),
		Region:      Pick(g.r, user.Regions),
		LastTweeted: 0,
		TweetCount:  0,
	}
	n := g.interestCount.Next(g.r)
	u.Interests = make([]string, 0, n)
	for i := int64(0); i < n; i++ {
		u.Interests = append(u.Interests, Pick(g.r, user.Interests))
	}
	return u
}

// Run writes every user in the range and returns how many were written.
// It stops at the first failed Put.
func (g *Generator) Run(ctx context.Context) (int64, error) {
	total := g.conf.Count()
	log.Info("generating users",
		zap.String("namespace", g.namespace),
		zap.String("set", g.set),
		zap.Int64("start", g.conf.Start),
		zap.Int64("end", g.conf.End),
		zap.Int("target", g.conf.Target))

	var written int64
	for id := g.conf.Start; id <= g.conf.End; id++ {
		if g.limiter != nil {
			if err := g.limiter.Wait(ctx); err != nil {
				return written, errors.Trace(err)
			}
		}
		if err := g.put(ctx, g.NewUser(id)); err != nil {
			return written, err
		}
		written++
		if g.conf.ReportInterval > 0 && written%g.conf.ReportInterval == 0 {
			log.Info("generate progress", zap.Int64("written", written), zap.Int64("total", total))
		}
	}
	log.Info("generate finished", zap.Int64("written", written))
	return written, nil
}

func (g *Generator) put(ctx context.Context, u *user.User) (err error) {
	start := time.Now()
	defer func() {
		measurement.Since(measurement.OpPut, measurement.OpPutError, start, err)
		metrics.StoreDuration.WithLabelValues("put").Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.GeneratedRecords.WithLabelValues(metrics.ResultError).Inc()
		} else {
			metrics.GeneratedRecords.WithLabelValues(metrics.ResultOK).Inc()
		}
	}()

	if err = g.st.Put(ctx, g.namespace, g.set, u.Username, u.Bins()); err != nil {
		return errors.Annotatef(err, "put %s", u.Username)
	}
	return nil
}
