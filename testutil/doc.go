// Package testutil provides test doubles for savvy components.
//
// APIServer is a gin-backed fake REST API that records every request it
// receives, and Recorder is a logger.Sink that captures log entries so tests
// can assert on exact messages:
//
//	func TestFetch(t *testing.T) {
//	    srv := testutil.NewAPIServer(t, func(r *gin.Engine) {
//	        r.GET("/items", testutil.JSON(http.StatusOK, gin.H{"key": "value"}))
//	    })
//	    rec := testutil.NewRecorder()
//	    client, _ := httpclient.New(httpclient.Config{BaseURL: srv.URL(), Logger: rec})
//	    ...
//	}
//
// Both helpers register their cleanup with testing.T.
package testutil
