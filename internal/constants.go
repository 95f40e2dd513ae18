/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

const (
	UserAgent = "franchise-cover/0.3.0 (+https://github.com/mikeb26/franchise-cover)"
	// WebCacheBucket is the S3 bucket the scraper's http cache lives in
	WebCacheBucket = "bopmatic-franchise-cover-prod-webcache"
)
